package tfresize

// Image payload decoding, corner-aligned resampling and JPEG re-encoding.

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// resizeEncodedImage decodes the compressed payload, scales both of the record's
// stored pixel dimensions by scale (truncating towards zero), resamples the pixels
// with corner-aligned bilinear interpolation and re-encodes the result as JPEG at
// jpegQuality.
//
// The target dimensions are computed from the record's originalHeight and
// originalWidth features, not from the decoded bounds.
//
// Returns the new encoded bytes and the new height and width.
func resizeEncodedImage(encoded []byte, originalHeight, originalWidth int64,
		scale float64, jpegQuality int) ([]byte, int64, int64, error) {

	img, err := imaging.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "failed to decode the image payload")
	}

	newHeight := int64(float64(originalHeight) * scale)
	newWidth := int64(float64(originalWidth) * scale)
	if newHeight < 1 || newWidth < 1 {
		return nil, 0, 0, errors.Errorf("invalid target dimensions %dx%d (%dx%d scaled by %v)",
			newWidth, newHeight, originalWidth, originalHeight, scale)
	}

	resized := resampleAlignCorners(imaging.Clone(img), int(newWidth), int(newHeight))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, errors.Wrap(err, "failed to encode the resized image")
	}
	return buf.Bytes(), newHeight, newWidth, nil
}

// resampleAlignCorners resizes src to width x height using bilinear interpolation
// with corner-aligned sampling: output pixel (x, y) samples the source at
// (x*(srcW-1)/(width-1), y*(srcH-1)/(height-1)), so the extreme sample points of the
// output grid coincide exactly with the extreme pixels of the input grid. The usual
// resampling filters place sample points at pixel centers and disagree with this
// convention at the image boundary. A one-pixel output axis samples source index 0.
func resampleAlignCorners(src *image.NRGBA, width, height int) *image.NRGBA {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	var stepX, stepY float64
	if width > 1 {
		stepX = float64(srcW-1) / float64(width-1)
	}
	if height > 1 {
		stepY = float64(srcH-1) / float64(height-1)
	}

	for y := 0; y < height; y++ {
		sy := float64(y) * stepY
		y0 := int(sy)
		if y0 > srcH-1 {
			y0 = srcH - 1
		}
		fy := sy - float64(y0)
		y1 := y0
		if y0 < srcH-1 {
			y1 = y0 + 1
		}

		for x := 0; x < width; x++ {
			sx := float64(x) * stepX
			x0 := int(sx)
			if x0 > srcW-1 {
				x0 = srcW - 1
			}
			fx := sx - float64(x0)
			x1 := x0
			if x0 < srcW-1 {
				x1 = x0 + 1
			}

			p00 := src.PixOffset(x0, y0)
			p10 := src.PixOffset(x1, y0)
			p01 := src.PixOffset(x0, y1)
			p11 := src.PixOffset(x1, y1)
			d := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				v := (1-fx)*(1-fy)*float64(src.Pix[p00+c]) +
						fx*(1-fy)*float64(src.Pix[p10+c]) +
						(1-fx)*fy*float64(src.Pix[p01+c]) +
						fx*fy*float64(src.Pix[p11+c])
				dst.Pix[d+c] = uint8(v + 0.5)
			}
		}
	}

	return dst
}
