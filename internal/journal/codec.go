package journal

import (
	"encoding/binary"
	"math"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/dims"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// #region vector-encoding
func encodeVector(v dims.Vector) []byte {
	buf := make([]byte, dims.NumDims*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) dims.Vector {
	var v dims.Vector
	for i := range v {
		if i*4+4 <= len(b) {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
	}
	return v
}

// encodeState lays out base, fast, slow back to back.
func encodeState(s state.State) []byte {
	buf := make([]byte, 0, int(dims.NumDims)*4*3)
	buf = append(buf, encodeVector(s.Base)...)
	buf = append(buf, encodeVector(s.Fast)...)
	buf = append(buf, encodeVector(s.Slow)...)
	return buf
}

func decodeState(b []byte) state.State {
	stride := int(dims.NumDims) * 4
	var s state.State
	if len(b) >= stride {
		s.Base = decodeVector(b[:stride])
	}
	if len(b) >= 2*stride {
		s.Fast = decodeVector(b[stride : 2*stride])
	}
	if len(b) >= 3*stride {
		s.Slow = decodeVector(b[2*stride : 3*stride])
	}
	return s
}

// #endregion vector-encoding
