package common

// DefaultPageSize is the fixed page size for listing endpoints. Both entity
// listings share it so pagination behaves uniformly across the API.
const DefaultPageSize = 20
