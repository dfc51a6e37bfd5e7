package platform

// MIMETypes is the external MIME-type lookup collaborator. The table contents
// are outside this layer; inject an implementation via [WithMIMETypes].
type MIMETypes interface {
	// Lookup reports the MIME type for a path, keyed on its extension.
	Lookup(path string) (mime string, ok bool)
}

// MIMETypesFunc adapts a function to the MIMETypes interface.
type MIMETypesFunc func(path string) (string, bool)

// Lookup implements MIMETypes.
func (f MIMETypesFunc) Lookup(path string) (string, bool) {
	return f(path)
}
