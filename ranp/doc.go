// Package ranp encodes and decodes RANP, the raw RetroArch netplay command
// stream consumed by input-replay tools.
//
// A stream is a sequence of frames:
//   - opcode: uint32 big-endian
//   - size:   uint32 big-endian, byte length of the payload section
//   - payload: size/4 big-endian uint32 words, then size%4 raw bytes
//
// Commands with unknown opcodes are legal and are carried through the codec
// unchanged. Decoding never reads past the end of its input; a partial frame
// is reported as ErrTruncated.
package ranp
