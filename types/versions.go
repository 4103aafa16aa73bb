package types

type ABTag = uint64
type ABVersion uint64

type Versioned interface {
	GetVersion() ABVersion
}

const (
	_ = iota + ABTag(1000)
	MessageOrderTag
)
