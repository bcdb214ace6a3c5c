/*
Copyright © 2021 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bgallie/hill/cryptors"
	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/internal/config"
)

var (
	errApiLevel  = errors.New("API level mismatch")
	errBlockSize = errors.New("block size mismatch")
	errHeader    = errors.New("malformed header line")
)

// armor describes how ciphertext is wrapped on output.
type armor struct {
	Format   string
	Compress bool
	Wrap     bool
	FileName string
}

func armorFromConfig(cfg config.Config, fileName string) armor {
	if fileName == "-" {
		fileName = ""
	}

	return armor{
		Format:   cfg.Format,
		Compress: cfg.Compress,
		Wrap:     cfg.Wrap,
		FileName: fileName,
	}
}

// cipherHelper starts a goroutine that pushes the letters read from rdr
// through a machine built from c and makes the result readable through the
// returned PipeReader.  The goroutine is tracked by g.  The caller must
// read the PipeReader to EOF or close it.
func cipherHelper(g *errgroup.Group, rdr io.Reader, c *hill.Cipher, encode bool) *io.PipeReader {
	rRdr, rWrtr := io.Pipe()

	g.Go(func() error {
		var left, right chan cryptors.Block
		if encode {
			left, right = cryptors.CreateEncryptMachine(c)
		} else {
			left, right = cryptors.CreateDecryptMachine(c)
		}
		// shutdown the machine by processing a Block with zero value
		// length field.
		defer cryptors.Shutdown(left, right)

		// The filters downstream only ever see EOF; failures are reported
		// by g.Wait.
		defer rWrtr.Close()

		cnt, err := cryptors.Stream(rdr, rWrtr, left, right, c.BlockSize())
		logger.Debugf("processed %d letters", cnt)
		return err
	})

	return rRdr
}

// traceHelper is cipherHelper for --steps: the whole input is transformed
// at once so trace can record every step.
func traceHelper(rdr io.Reader, c *hill.Cipher, encode bool, trace *hill.Trace) (io.Reader, error) {
	text, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}

	var out string
	if encode {
		out, err = c.Encrypt(string(text), trace)
	} else {
		out, err = c.Decrypt(string(text), trace)
	}
	if err != nil {
		return nil, err
	}

	return strings.NewReader(out), nil
}

// encryptTo enciphers the text read from rdr and writes it to w wrapped as
// described by a.  When trace is not nil every step is recorded in it.
func encryptTo(w io.Writer, rdr io.Reader, c *hill.Cipher, a armor, trace *hill.Trace) error {
	var g errgroup.Group
	var encIn io.Reader
	var pRdr *io.PipeReader

	if trace != nil {
		var err error
		if encIn, err = traceHelper(rdr, c, true, trace); err != nil {
			return err
		}
	} else {
		pRdr = cipherHelper(&g, rdr, c, true)
		encIn = pRdr
	}

	if a.Compress {
		encIn = flate.ToFlate(encIn)
	}

	var err error
	switch a.Format {
	case config.FormatPEM:
		var blck pem.Block
		blck.Type = pemBlockType
		blck.Headers = make(map[string]string)
		blck.Headers["ApiLevel"] = strconv.Itoa(hillApiLevel)
		blck.Headers["BlockSize"] = strconv.Itoa(c.BlockSize())
		blck.Headers["Compression"] = fmt.Sprintf("%v", a.Compress)
		if len(a.FileName) > 0 {
			blck.Headers["FileName"] = a.FileName
		}
		_, err = io.Copy(w, pem.ToPem(bufio.NewReader(encIn), blck))
	case config.FormatASCII85:
		headerLine := fmt.Sprintf("%s|%d|%s|a|%v|%d\n", headerMarker, hillApiLevel, a.FileName, a.Compress, c.BlockSize())
		if _, err = io.WriteString(w, headerLine); err == nil {
			_, err = io.Copy(w, lines.SplitToLines(ascii85.ToASCII85(encIn)))
		}
	default:
		if a.Wrap {
			_, err = io.Copy(w, lines.SplitToLines(encIn))
		} else if _, err = io.Copy(w, encIn); err == nil {
			_, err = io.WriteString(w, "\n")
		}
	}

	// Wait for the encryption machine to finish it's clean up.
	return waitFor(&g, pRdr, err)
}

// header is what dearmor learns from an armored input.
type header struct {
	Format    string
	ApiLevel  int
	BlockSize int
	Compress  bool
	FileName  string
}

// dearmor detects the format of the input and returns a reader positioned
// at the ciphertext.  Anything that is neither PEM nor a "+HILL|" header
// line is taken to be ciphertext letters.
func dearmor(bRdr *bufio.Reader) (io.Reader, header, error) {
	b, err := bRdr.Peek(len(headerMarker))
	if err != nil && err != io.EOF {
		return nil, header{}, err
	}

	switch string(b) {
	case "-----":
		pRdr, blck := pem.FromPem(bRdr)
		h := header{Format: config.FormatPEM, ApiLevel: -1, FileName: blck.Headers["FileName"]}
		if fal, ok := blck.Headers["ApiLevel"]; ok {
			h.ApiLevel, _ = strconv.Atoi(fal)
		}
		h.BlockSize, _ = strconv.Atoi(blck.Headers["BlockSize"])
		h.Compress = blck.Headers["Compression"] == "true"
		return pRdr, h, nil
	case headerMarker:
		line, err := bRdr.ReadString('\n')
		if err != nil {
			return nil, header{}, fmt.Errorf("%w: %v", errHeader, err)
		}
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "|")
		if len(fields) != 6 || fields[0] != headerMarker || fields[3] != "a" {
			return nil, header{}, fmt.Errorf("%w: %q", errHeader, line)
		}
		h := header{Format: config.FormatASCII85, FileName: fields[2], Compress: fields[4] == "true"}
		if h.ApiLevel, err = strconv.Atoi(fields[1]); err != nil {
			return nil, header{}, fmt.Errorf("%w: %q", errHeader, line)
		}
		if h.BlockSize, err = strconv.Atoi(fields[5]); err != nil {
			return nil, header{}, fmt.Errorf("%w: %q", errHeader, line)
		}
		return ascii85.FromASCII85(lines.CombineLines(bRdr)), h, nil
	}

	return bRdr, header{Format: config.FormatText, ApiLevel: hillApiLevel}, nil
}

// decryptTo deciphers rdr, detecting its armor, and writes the plaintext
// letters to w.
func decryptTo(w io.Writer, rdr io.Reader, c *hill.Cipher, trace *hill.Trace) error {
	aRdr, h, err := dearmor(bufio.NewReader(rdr))
	if err != nil {
		return err
	}

	if h.ApiLevel != hillApiLevel {
		return fmt.Errorf("%w: file API level %d, hill API level %d", errApiLevel, h.ApiLevel, hillApiLevel)
	}

	if h.Format != config.FormatText && h.BlockSize != c.BlockSize() {
		return fmt.Errorf("%w: file was encrypted with a %dx%d key, key is %dx%d",
			errBlockSize, h.BlockSize, h.BlockSize, c.BlockSize(), c.BlockSize())
	}

	logger.WithFields(logrus.Fields{
		"format":   h.Format,
		"compress": h.Compress,
		"fileName": h.FileName,
	}).Debug("decrypting")

	if h.Compress {
		aRdr = flate.FromFlate(aRdr)
	}

	var g errgroup.Group
	var decOut io.Reader
	var pRdr *io.PipeReader
	if trace != nil {
		if decOut, err = traceHelper(aRdr, c, false, trace); err != nil {
			return err
		}
	} else {
		pRdr = cipherHelper(&g, aRdr, c, false)
		decOut = pRdr
	}

	_, err = io.Copy(w, decOut)
	if err == nil {
		_, err = io.WriteString(w, "\n")
	}

	// Wait for the decryption machine to finish it's clean up.
	return waitFor(&g, pRdr, err)
}

// waitFor waits for the cipher goroutine behind pRdr.  A copy error err
// closes pRdr first so a blocked writer is released.  An error from the
// goroutine takes precedence unless it only reports the closed pipe.
func waitFor(g *errgroup.Group, pRdr *io.PipeReader, err error) error {
	if err != nil && pRdr != nil {
		pRdr.CloseWithError(err)
	}

	if werr := g.Wait(); werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
		return werr
	}

	return err
}
