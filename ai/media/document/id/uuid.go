package id

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var _ Generator = (*UUIDGenerator)(nil)

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (u *UUIDGenerator) Generate(_ context.Context, _ ...any) (string, error) {
	return uuid.New().String(), nil
}

var _ Generator = (*UUID5Generator)(nil)

// UUID5Generator derives a deterministic UUIDv5 from a fixed namespace and
// the canonical id of the object being identified. Unlike UUIDGenerator,
// repeated calls with the same input object yield the same id, which is
// what idempotent point keys in a vector store require: upserting the same
// logical record twice overwrites rather than duplicates.
type UUID5Generator struct {
	namespace uuid.UUID
}

// NewUUID5Generator builds a generator scoped to namespace. Two generators
// built from different namespaces never collide even given the same name.
func NewUUID5Generator(namespace uuid.UUID) *UUID5Generator {
	return &UUID5Generator{namespace: namespace}
}

// Generate expects exactly one object: the canonical name to hash (typically
// a document or section's natural id, e.g. "ukpga/1998/42/section/1").
// Non-string objects are formatted with %v first.
func (u *UUID5Generator) Generate(_ context.Context, objects ...any) (string, error) {
	if len(objects) == 0 {
		return "", fmt.Errorf("id: UUID5Generator requires a name to hash")
	}

	name, ok := objects[0].(string)
	if !ok {
		name = fmt.Sprintf("%v", objects[0])
	}

	return uuid.NewSHA1(u.namespace, []byte(name)).String(), nil
}
