package reference

// Kind tells how a user-supplied target should be fetched.
type Kind int

const (
	KindLink Kind = iota
	KindArxiv
	KindLocalFile
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindArxiv:
		return "arxiv"
	case KindLocalFile:
		return "file"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}
