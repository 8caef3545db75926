package bot

import "strings"

// Callback payloads carry the dispatcher epoch in front of the
// operation argument. A button pressed after a process restart carries
// a foreign epoch and is answered with an out-of-date notice instead of
// being misread by a fresh flow.

const epochSep = ":"

// EncodePayload packs the epoch and argument into callback data.
func EncodePayload(epoch, arg string) string {
	return epoch + epochSep + arg
}

// DecodePayload splits callback data into epoch and argument.
func DecodePayload(payload string) (epoch, arg string) {
	epoch, arg, _ = strings.Cut(payload, epochSep)
	return epoch, arg
}
