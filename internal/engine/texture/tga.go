package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

// ErrInvalidTGA is returned for TGA data the decoder cannot handle.
var ErrInvalidTGA = errors.New("invalid TGA data")

// DecodeTGA decodes a true-color TGA image, either uncompressed or RLE.
// TGA has no magic number, so it cannot be registered with image.Decode.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: header truncated", ErrInvalidTGA)
	}
	idLength := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("%w: color-mapped images are not supported", ErrInvalidTGA)
	}
	imageType := data[2]
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: unsupported image type %d", ErrInvalidTGA, imageType)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidTGA, bpp)
	}
	if 18+idLength > len(data) {
		return nil, fmt.Errorf("%w: id field truncated", ErrInvalidTGA)
	}

	w := &tgaWriter{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		stride:      bpp / 8,
		topToBottom: data[17]&0x20 != 0,
	}
	src := data[18+idLength:]

	if imageType == TGATypeUncompressed {
		if len(src) < width*height*w.stride {
			return nil, fmt.Errorf("%w: pixel data truncated", ErrInvalidTGA)
		}
		for i := 0; i < width*height; i++ {
			w.put(src[i*w.stride:])
		}
		return w.img, nil
	}

	// RLE: a packet header's high bit selects a repeated pixel, the low
	// seven bits hold the pixel count minus one.
	for pos := 0; w.n < width*height && pos < len(src); {
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1
		if packet&0x80 != 0 {
			if pos+w.stride > len(src) {
				break
			}
			for i := 0; i < count; i++ {
				w.put(src[pos:])
			}
			pos += w.stride
			continue
		}
		for i := 0; i < count && pos+w.stride <= len(src); i++ {
			w.put(src[pos:])
			pos += w.stride
		}
	}
	return w.img, nil
}

// tgaWriter stores BGR(A) pixels in file order, flipping rows for
// bottom-up images.
type tgaWriter struct {
	img           *image.RGBA
	width, height int
	stride        int
	topToBottom   bool
	n             int
}

func (w *tgaWriter) put(px []byte) {
	if w.n >= w.width*w.height {
		return
	}
	x, y := w.n%w.width, w.n/w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	i := w.img.PixOffset(x, y)
	w.img.Pix[i+0] = px[2]
	w.img.Pix[i+1] = px[1]
	w.img.Pix[i+2] = px[0]
	w.img.Pix[i+3] = 255
	if w.stride == 4 {
		w.img.Pix[i+3] = px[3]
	}
	w.n++
}
