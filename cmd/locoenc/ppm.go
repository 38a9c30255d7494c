package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// image is a minimal in-memory raster: Channels is 1 for PGM (gray) or
// 3 for PPM (RGB), Pix is 8-bit interleaved samples of length
// W*H*Channels.
type image struct {
	W, H     int
	Channels int
	Pix      []byte
}

// readPNM reads a binary PGM (P5) or PPM (P6) file, the smallest raster
// formats that need no external decoder dependency for this CLI's
// round-trip demo, per SPEC_FULL.md's ambient-I/O note.
func readPNM(r io.Reader) (image, error) {
	br := bufio.NewReader(r)
	magic, err := readToken(br)
	if err != nil {
		return image{}, errors.Wrap(err, "locoenc: read magic")
	}
	var channels int
	switch magic {
	case "P5":
		channels = 1
	case "P6":
		channels = 3
	default:
		return image{}, errors.Errorf("locoenc: unsupported PNM magic %q", magic)
	}

	w, err := readIntToken(br)
	if err != nil {
		return image{}, errors.Wrap(err, "locoenc: read width")
	}
	h, err := readIntToken(br)
	if err != nil {
		return image{}, errors.Wrap(err, "locoenc: read height")
	}
	maxVal, err := readIntToken(br)
	if err != nil {
		return image{}, errors.Wrap(err, "locoenc: read maxval")
	}
	if maxVal != 255 {
		return image{}, errors.Errorf("locoenc: unsupported maxval %d (only 255 is supported)", maxVal)
	}

	pix := make([]byte, w*h*channels)
	if _, err := io.ReadFull(br, pix); err != nil {
		return image{}, errors.Wrap(err, "locoenc: read pixel data")
	}
	return image{W: w, H: h, Channels: channels, Pix: pix}, nil
}

// writePNM writes img back out as binary PGM or PPM, matching its
// channel count.
func writePNM(w io.Writer, img image) error {
	magic := "P6"
	if img.Channels == 1 {
		magic = "P5"
	}
	if _, err := fmt.Fprintf(w, "%s\n%d %d\n255\n", magic, img.W, img.H); err != nil {
		return err
	}
	_, err := w.Write(img.Pix)
	return err
}

// readToken and readIntToken skip PNM's whitespace-delimited ASCII
// header tokens, including '#' comment lines, per the format's grammar.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			if _, err := br.ReadString('\n'); err != nil {
				return "", err
			}
			continue
		}
		if isSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("locoenc: invalid integer token %q", tok)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
