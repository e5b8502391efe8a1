package model

// Category names a bucket transactions are filed under. Names are not
// unique; the ID is the stable handle.
type Category struct {
	Name string
	ID   int
}
