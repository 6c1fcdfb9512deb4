package memory

import "github.com/cockroachdb/errors"

// errDuplicateKey mirrors the postgres unique-violation text so callers
// classify both stores the same way.
var errDuplicateKey = errors.New("duplicate key value violates unique constraint")
