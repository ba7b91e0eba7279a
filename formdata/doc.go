// Package formdata turns structured request input into multipart form fields.
//
// Input is modelled as a Value tree (scalar, list or map). Flatten walks the
// tree depth-first and names every leaf with bracket suffixes, so
//
//	{a: 1, b: {c: 2, d: [3, 4]}}
//
// becomes the fields a, b[c], b[d][0] and b[d][1] in that order. Build appends
// uploaded files after the structured fields, and Write encodes the result as a
// multipart/form-data body.
//
// ParseForm and FromJSON go the other way: they rebuild a Value from decoded
// form values or a raw JSON document so inbound input can be re-encoded
// without losing its shape.
package formdata
