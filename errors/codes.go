package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline construction and execution errors.
const (
	// ErrCodeTopology indicates an illegal graph construction.
	ErrCodeTopology ErrorCode = "TOPOLOGY_ERROR"
	// ErrCodeParse indicates the input could not be read or decoded.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeWrite indicates the output could not be serialized or written.
	ErrCodeWrite ErrorCode = "WRITE_ERROR"
	// ErrCodeCanceled indicates the execution was canceled by its caller.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Request errors.
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Infrastructure errors.
const (
	// ErrCodeCache indicates a content cache failure.
	ErrCodeCache ErrorCode = "CACHE_ERROR"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Stage identifies where in the pipeline lifecycle a failure happened.
type Stage string

const (
	StageTopology Stage = "topology"
	StageParse    Stage = "parse"
	StageWrite    Stage = "write"
	StageAction   Stage = "action"
	StageCache    Stage = "cache"
	StageExecute  Stage = "execute"
)

var defaultStages = map[ErrorCode]Stage{
	ErrCodeTopology: StageTopology,
	ErrCodeParse:    StageParse,
	ErrCodeWrite:    StageWrite,
	ErrCodeCache:    StageCache,
	ErrCodeCanceled: StageExecute,
	ErrCodeInternal: StageExecute,
}

// StageOf returns the stage normally associated with a code.
func StageOf(code ErrorCode) Stage {
	if s, ok := defaultStages[code]; ok {
		return s
	}
	return StageExecute
}
