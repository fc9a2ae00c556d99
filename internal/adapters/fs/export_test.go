package fs

// HashVersion exposes the serialization version for tests.
const HashVersion = hashVersion
