// Package generator turns a tuning database into generated C++ tuning tables.
//
// For every kernel family the generator writes, under <output>/<family>/:
//
//   - <family>_<code>.hpp for each precision code found anywhere in the database
//   - <family>.cpp including the family header and every precision table
//   - <family>.hpp declaring every precision table
//
// A precision without records for a family is generated from the family's
// baseline default entries, so every family gets the same set of files.
//
// # Usage
//
//	cfg := config.NewConfig(config.WithParallelism(4))
//	g := generator.New(generator.WithConfig(cfg))
//	result, err := g.Make(ctx, db, "out")
//
// # Concurrency
//
// Families are generated concurrently up to the configured parallelism; each
// family writes to its own directory. Cancellation is checked between
// families and between precision tables. A failure stops the run but leaves
// files already written in place.
//
// # Checksums
//
// With checksums enabled a checksums.txt file listing the SHA256 of every
// written file is added at the output root.
package generator
