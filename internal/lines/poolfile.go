package lines

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPool reads a YAML pool file:
//
//	main:
//	  preferred: [17, 19, 20, 23, 27, 35, 38, 40, 44, 50]
//	  disfavored: [1, 22, 26, 33, 43]
//	bonus:
//	  preferred: [2, 3, 8, 9, 10]
//	  disfavored: [6, 11]
//
// The loaded pool is validated before it is returned.
func LoadPool(path string) (Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pool{}, fmt.Errorf("read pool file: %w", err)
	}
	return ParsePool(data)
}

// ParsePool decodes and validates a YAML pool document. Unknown keys are rejected
// so a typo cannot silently drop an exclusion list.
func ParsePool(data []byte) (Pool, error) {
	var pool Pool
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pool); err != nil {
		return Pool{}, fmt.Errorf("decode pool file: %w", err)
	}
	if err := pool.Validate(); err != nil {
		return Pool{}, err
	}
	return pool, nil
}

// ResolvePool returns the pool in path, or DefaultPool when path is empty.
// Either way the result has passed Validate.
func ResolvePool(path string) (Pool, error) {
	if path != "" {
		return LoadPool(path)
	}
	pool := DefaultPool()
	if err := pool.Validate(); err != nil {
		return Pool{}, err
	}
	return pool, nil
}
