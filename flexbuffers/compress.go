// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package flexbuffers

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// CompressFinished and DecompressFinished treat an already-Finish-ed
// FlexBuffers buffer as an opaque blob to shrink for storage or
// transport. This is strictly a post-processing step: the encoder itself
// never compresses mid-build (the core is in-memory, single-pass, and
// never streams — see spec Non-goals), it only ever runs over bytes that
// Finish has already produced.

var (
	zstdEncOnce sync.Once
	zstdEnc     *zstd.Encoder
	zstdDecOnce sync.Once
	zstdDec     *zstd.Decoder
)

func encoder() *zstd.Encoder {
	zstdEncOnce.Do(func() {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			panic(err)
		}
		zstdEnc = enc
	})
	return zstdEnc
}

func decoder() *zstd.Decoder {
	zstdDecOnce.Do(func() {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		zstdDec = dec
	})
	return zstdDec
}

// CompressFinished returns a zstd-compressed copy of a finished
// FlexBuffers buffer.
func CompressFinished(buf []byte) []byte {
	return encoder().EncodeAll(buf, nil)
}

// DecompressFinished reverses CompressFinished.
func DecompressFinished(compressed []byte) ([]byte, error) {
	out, err := decoder().DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("flexbuffers.DecompressFinished: %w", err)
	}
	return out, nil
}
