package cryptors

import (
	"bufio"
	"errors"
	"io"

	"github.com/bgallie/hill/cryptors/codec"
	"github.com/bgallie/hill/cryptors/matrix"
)

// ErrNoLetters is returned by Stream when the input holds no letters.
var ErrNoLetters = errors.New("cryptors: input has no letters")

const streamBufferSize = 2048

// Stream reads text from rdr, keeps only its letters and pushes them
// through the machine (left, right) blockSize letters at a time.  A final
// partial block is padded with codec.Filler.  The transformed letters are
// written to w and their count returned.  The machine is left running.
func Stream(rdr io.Reader, w io.Writer, left, right chan Block, blockSize int) (int64, error) {
	if blockSize < 1 {
		return 0, codec.ErrBlockSize
	}

	bw := bufio.NewWriter(w)
	pending := make(matrix.Vector, 0, blockSize*2)
	var written int64

	flushBlock := func(data matrix.Vector) error {
		blk := Block{Length: len(data), Data: append(matrix.Vector(nil), data...)}
		left <- blk
		blk = <-right
		for _, v := range blk.Data {
			if err := bw.WriteByte(codec.IndexToLetter(v)); err != nil {
				return err
			}
			written++
		}
		return nil
	}

	b := make([]byte, streamBufferSize)
	var err error
	for err != io.EOF {
		var cnt int
		cnt, err = rdr.Read(b)
		if err != nil && err != io.EOF {
			return written, err
		}

		for _, ch := range b[:cnt] {
			idx, lerr := codec.LetterToIndex(ch)
			if lerr != nil {
				continue
			}
			pending = append(pending, idx)
		}

		for len(pending) >= blockSize {
			if werr := flushBlock(pending[:blockSize]); werr != nil {
				return written, werr
			}
			pending = append(pending[:0], pending[blockSize:]...)
		}
	}

	if len(pending) > 0 {
		filler, _ := codec.LetterToIndex(codec.Filler)
		for len(pending) < blockSize {
			pending = append(pending, filler)
		}
		if werr := flushBlock(pending); werr != nil {
			return written, werr
		}
	}

	if written == 0 {
		return 0, ErrNoLetters
	}

	return written, bw.Flush()
}
