package story

import "errors"

var (
	// ErrCredentialSelection indicates no usable credential is selected;
	// the selector has been opened and no attempt was started.
	ErrCredentialSelection = errors.New("credential selection required")
	// ErrNoLastConfig indicates there is no previous request to reuse.
	ErrNoLastConfig = errors.New("no previous request to reuse")
	// ErrNoCompletedScene indicates the operation needs a successful scene.
	ErrNoCompletedScene = errors.New("no completed scene to continue from")
	// ErrNotExtendable indicates the last result's resolution rules out
	// extension.
	ErrNotExtendable = errors.New("only 720p videos can be extended")
)
