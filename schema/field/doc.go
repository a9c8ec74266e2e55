// Package field provides builders for scalar (non-relation) fields.
//
// Scalar fields matter to the cascade checks only as the object-id half of a
// generic relation, and to the DDL renderer as plain columns:
//
//	field.Int("object_id")
//	field.String("name").Nullable()
package field
