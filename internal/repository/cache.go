package repository

// Cache is a small key-value cache used to memoize portfolio summaries.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string) error
}
