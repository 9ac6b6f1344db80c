package ports

// ConfigParser decodes a host configuration document.
type ConfigParser interface {
	// Parse decodes data into v, which must be a pointer.
	Parse(data []byte, v any) error

	// Format names the document format, e.g. "toml".
	Format() string
}
