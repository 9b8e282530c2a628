package interfaces

// Repository defines the interface for editor session storage.
// Sessions live only for one open→close lifecycle; segments themselves are
// never stored.
type Repository interface {
	Editor() EditorRepository
	Close() error
}
