package keyfile

const (
	// sentinel marks a comment line in a .key/.k input deck
	sentinel = '$'

	// partFileSuffix is the suffix used for temporary files during atomic rewrites
	partFileSuffix = ".part"

	// filePermissions is the default permissions for rewritten decks (rw-r--r--)
	filePermissions = 0o644
)
