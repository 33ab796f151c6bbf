package config

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// computeFingerprint hashes every configuration field in a fixed order.
// Floats are written as their exact bit patterns so the hash never depends on
// formatting, and variable-length fields are length-prefixed so adjacent
// fields cannot alias each other.
func computeFingerprint(c *textConfig) string {
	h := sha256.New()

	writeString(h, c.text)
	writeString(h, c.style.FontPath)
	h.Write([]byte{c.style.FaceColor.R, c.style.FaceColor.G, c.style.FaceColor.B})
	h.Write([]byte{c.style.SideColor.R, c.style.SideColor.G, c.style.SideColor.B})
	h.Write([]byte{c.style.EdgeColor.R, c.style.EdgeColor.G, c.style.EdgeColor.B})
	writeString(h, string(c.style.Gradient))
	h.Write([]byte{c.style.ChromaKey.R, c.style.ChromaKey.G, c.style.ChromaKey.B})
	writeFloat(h, c.style.Depth)
	writeFloat(h, c.style.Bevel)
	writeFloat(h, c.style.Roughness)
	writeFloat(h, c.style.Metalness)

	writeString(h, string(c.animation.Kind))
	writeFloat(h, c.animation.Amplitude)
	writeFloat(h, c.animation.CycleDuration)
	writeFloat(h, c.animation.TiltX)
	writeFloat(h, c.animation.TiltY)

	writeFloat(h, c.camera.FOV)

	writeFloat(h, c.light.Direction[0])
	writeFloat(h, c.light.Direction[1])
	writeFloat(h, c.light.Direction[2])
	writeFloat(h, c.light.Ambient)
	writeFloat(h, c.light.Diffuse)

	return hex.EncodeToString(h.Sum(nil)[:16])
}

func writeString(h hash.Hash, s string) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	h.Write(lenBuf[:])
	h.Write([]byte(s))
}

func writeFloat(h hash.Hash, f float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	h.Write(buf[:])
}
