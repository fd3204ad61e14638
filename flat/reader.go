package flat

import (
	"os"

	"github.com/eak1mov/go-libworld/world"
)

// Reader reads either form of a flat model file.
type Reader struct {
	data []byte
}

var _ world.Reader = (*Reader)(nil)

func NewFileReader(filePath string) (*Reader, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{data: data}, nil
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) ReadModel() (*world.LevelModel, error) {
	return Decode(r.data)
}

func (r *Reader) Close() error {
	r.data = nil
	return nil
}

// WriteJSONFile writes the plain JSON form to filePath.
func WriteJSONFile(filePath string, model *world.LevelModel) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteJSON(file, model)
}
