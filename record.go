package tfresize

// The TFRecord Example schema for labeled images and its codec.

import (
	"path/filepath"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// Fixed image descriptors. They are written to every output record regardless of the
// input values; the transform always produces a 3-channel RGB JPEG.
const (
	Colorspace  = "RGB"
	Channels    = 3
	ImageFormat = "JPEG"
)

// BBox is one normalized bounding rectangle. Coordinates are fractions of the image
// extent in [0, 1] and therefore independent of the pixel dimensions.
type BBox struct {
	XMin, YMin, XMax, YMax float32
}

// Record is the decoded form of one labeled-image entry.
type Record struct {
	Filename  string // The source image path; only the basename is kept on output.
	Label     int64  // The integer class id.
	Synset    string // The WordNet id for the label, e.g. "n02323233".
	HumanText string // The human-readable label, e.g. "red fox, Vulpes vulpes".
	BBoxes    []BBox // The annotated objects, in input order.
	Height    int64  // Pixel dimensions of the current Encoded payload.
	Width     int64
	Encoded   []byte // The compressed image.
}

// DecodeRecord parses raw as a serialized tensorflow.Example and extracts the fixed
// feature taxonomy into a Record. A missing scalar feature or a bounding box list
// length mismatch is an error; absent bounding box lists decode as empty.
func DecodeRecord(raw []byte) (Record, error) {
	var ex tensorflow.Example
	if err := proto.Unmarshal(raw, &ex); err != nil {
		return Record{}, errors.Wrap(err, "malformed example proto")
	}
	features := ex.GetFeatures().GetFeature()

	var rec Record
	var err error
	if rec.Filename, err = stringFeature(features, "image/filename"); err != nil {
		return Record{}, err
	}
	if rec.Label, err = int64Feature(features, "image/class/label"); err != nil {
		return Record{}, err
	}
	if rec.Synset, err = stringFeature(features, "image/class/synset"); err != nil {
		return Record{}, err
	}
	if rec.HumanText, err = stringFeature(features, "image/class/text"); err != nil {
		return Record{}, err
	}
	if rec.Height, err = int64Feature(features, "image/height"); err != nil {
		return Record{}, err
	}
	if rec.Width, err = int64Feature(features, "image/width"); err != nil {
		return Record{}, err
	}
	if rec.Encoded, err = bytesFeature(features, "image/encoded"); err != nil {
		return Record{}, err
	}

	xmins := floatListFeature(features, "image/object/bbox/xmin")
	ymins := floatListFeature(features, "image/object/bbox/ymin")
	xmaxs := floatListFeature(features, "image/object/bbox/xmax")
	ymaxs := floatListFeature(features, "image/object/bbox/ymax")
	if len(ymins) != len(xmins) || len(xmaxs) != len(xmins) || len(ymaxs) != len(xmins) {
		return Record{}, errors.Errorf(
			"mismatched bounding box list lengths: xmin=%d ymin=%d xmax=%d ymax=%d",
			len(xmins), len(ymins), len(xmaxs), len(ymaxs))
	}
	rec.BBoxes = make([]BBox, len(xmins))
	for i := range rec.BBoxes {
		rec.BBoxes[i] = BBox{XMin: xmins[i], YMin: ymins[i], XMax: xmaxs[i], YMax: ymaxs[i]}
	}

	return rec, nil
}

// Encode serializes the record as a tensorflow.Example in the fixed feature taxonomy.
//
// The colorspace, channel count and image format descriptors are always written as
// their constants. The per-object label list is synthesized with one copy of r.Label
// per bounding box, and the bounding box coordinates are copied through unmodified:
// they are normalized to the image extent and unaffected by any resize.
func (r Record) Encode() ([]byte, error) {
	numObjects := len(r.BBoxes)
	xmins := make([]float32, numObjects)
	ymins := make([]float32, numObjects)
	xmaxs := make([]float32, numObjects)
	ymaxs := make([]float32, numObjects)
	objectLabels := make([]int64, numObjects)
	for i, b := range r.BBoxes {
		xmins[i] = b.XMin
		ymins[i] = b.YMin
		xmaxs[i] = b.XMax
		ymaxs[i] = b.YMax
		objectLabels[i] = r.Label
	}

	f := map[string]interface{}{
		"image/height":            int(r.Height),
		"image/width":             int(r.Width),
		"image/colorspace":        Colorspace,
		"image/channels":          Channels,
		"image/class/label":       int(r.Label),
		"image/class/synset":      r.Synset,
		"image/class/text":        r.HumanText,
		"image/object/bbox/xmin":  xmins,
		"image/object/bbox/ymin":  ymins,
		"image/object/bbox/xmax":  xmaxs,
		"image/object/bbox/ymax":  ymaxs,
		"image/object/bbox/label": objectLabels,
		"image/format":            ImageFormat,
		"image/filename":          filepath.Base(r.Filename),
		"image/encoded":           r.Encoded,
	}

	enc, err := proto.Marshal(example.New(f))
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize the example proto")
	}
	return enc, nil
}

// bytesFeature returns the first value of the named bytes-list feature.
func bytesFeature(features map[string]*tensorflow.Feature, name string) ([]byte, error) {
	var v [][]byte
	if l := features[name].GetBytesList(); l != nil {
		v = l.Value
	}
	if len(v) == 0 {
		return nil, errors.Errorf("missing bytes feature %q", name)
	}
	return v[0], nil
}

// stringFeature returns the first value of the named bytes-list feature as a string.
func stringFeature(features map[string]*tensorflow.Feature, name string) (string, error) {
	v, err := bytesFeature(features, name)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// int64Feature returns the first value of the named int64-list feature.
func int64Feature(features map[string]*tensorflow.Feature, name string) (int64, error) {
	var v []int64
	if l := features[name].GetInt64List(); l != nil {
		v = l.Value
	}
	if len(v) == 0 {
		return 0, errors.Errorf("missing int64 feature %q", name)
	}
	return v[0], nil
}

// floatListFeature returns the values of the named float-list feature. An absent
// feature yields an empty list, matching the proto feature-map access semantics the
// record producers rely on.
func floatListFeature(features map[string]*tensorflow.Feature, name string) []float32 {
	if l := features[name].GetFloatList(); l != nil {
		return l.Value
	}
	return nil
}
