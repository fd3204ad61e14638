package world

// Writer defines an interface for persisting a compiled model.
type Writer interface {
	// WriteModel writes the whole model. It may be called once per Writer.
	WriteModel(model *LevelModel) error

	// Finalize completes the writing process: flushes buffers, writes header and indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadModel reads and decodes the whole model.
	// Implementations validate the result before returning it.
	ReadModel() (*LevelModel, error)
}
