package document

// ErrorKind categorizes validation and parsing failures so callers can map
// them to one user-facing message per kind.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrFileNotFound
	ErrPermissionDenied
	ErrPasswordProtected
	ErrInvalidFormat
	ErrCorrupted
	ErrNoText
	ErrTimeout
	ErrParserUnavailable
	ErrWriteFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFileNotFound:
		return "file_not_found"
	case ErrPermissionDenied:
		return "permission_denied"
	case ErrPasswordProtected:
		return "password_protected"
	case ErrInvalidFormat:
		return "invalid_format"
	case ErrCorrupted:
		return "corrupted"
	case ErrNoText:
		return "no_text"
	case ErrTimeout:
		return "parsing_timeout"
	case ErrParserUnavailable:
		return "parser_unavailable"
	case ErrWriteFailure:
		return "write_failure"
	default:
		return "unknown"
	}
}
