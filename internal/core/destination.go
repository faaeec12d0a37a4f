package core

// Destination is an offsite target for exported backup files. The scheduler
// mirrors each backup it produces to every configured destination on a
// best-effort basis; a destination failure never fails the backup itself.
type Destination interface {
	// Name identifies the destination in logs and status output.
	Name() string

	// Put stores an exported backup document under the given filename.
	// Storing the same filename twice overwrites the previous copy.
	Put(filename string, data []byte) error

	// Get retrieves a previously stored backup by filename.
	Get(filename string) ([]byte, error)

	// List returns the filenames of all stored backups.
	List() ([]string, error)

	// ValidateSetup verifies that the destination is accessible and properly
	// configured.
	ValidateSetup() error
}
