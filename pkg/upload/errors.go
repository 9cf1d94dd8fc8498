package upload

import "errors"

var (
	ErrNilFileHeader      = errors.New("file header is nil")
	ErrNotAnImage         = errors.New("file is not an image")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrFailedToOpenFile   = errors.New("failed to open uploaded file")
	ErrFailedToWriteFile  = errors.New("failed to write file")
	ErrFailedToDeleteFile = errors.New("failed to delete file")
	ErrFailedToLoadAWS    = errors.New("failed to load AWS config")
)
