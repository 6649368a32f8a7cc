// Package sqlite implements the DocumentStore port on an embedded SQLite
// database.
//
// The database holds two tables, documents and chunks, with chunk rows
// cascading on document deletion. Chunk embeddings are stored as raw
// little-endian float32 bytes (dimension * 4 bytes per row) so database
// files interoperate with other tools reading the same layout. Similarity
// search is an exhaustive scan with partial top-k selection; there is no
// secondary vector index.
package sqlite
