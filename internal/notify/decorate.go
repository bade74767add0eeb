package notify

import "hash/fnv"

var prefixes = []string{"✌️", "😑", "✨", "🙄", "🐾", "😏", "🙃", "💫"}

// Decorate prefixes msg with a decoration picked deterministically from its
// content, so the same notice always carries the same prefix.
func Decorate(msg string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(msg))
	return prefixes[h.Sum32()%uint32(len(prefixes))] + " " + msg
}
