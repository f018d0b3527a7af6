package core

// Recorder observes the outcome of the boundaries.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// PipelineBuilt is called each time a pipeline is compiled.
	PipelineBuilt()
	// ExceptionHandled is called when a registered handler produced the response.
	ExceptionHandled(key string)
	// ServerError is called for every failure reaching the outermost boundary.
	ServerError(responded bool)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) PipelineBuilt()          {}
func (NopRecorder) ExceptionHandled(string) {}
func (NopRecorder) ServerError(bool)        {}
