// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package image

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"seehuhn.de/go/icc"
)

// Tag signatures of a matrix/TRC display profile.
const (
	tagMediaWhitePoint icc.TagType = 0x77747074 // "wtpt"
	tagRedColorant     icc.TagType = 0x7258595A // "rXYZ"
	tagGreenColorant   icc.TagType = 0x6758595A // "gXYZ"
	tagBlueColorant    icc.TagType = 0x6258595A // "bXYZ"
	tagRedTRC          icc.TagType = 0x72545243 // "rTRC"
	tagGreenTRC        icc.TagType = 0x67545243 // "gTRC"
	tagBlueTRC         icc.TagType = 0x62545243 // "bTRC"
)

const srgbCurveSize = 1024

// srgbProfile returns a version 2 ICC profile for the sRGB color space.
// Colorants are the sRGB primaries, chromatically adapted to D50.
var srgbProfile = sync.OnceValue(func() []byte {
	curve := srgbCurve()
	p := &icc.Profile{
		Version:         icc.Version2_1_0,
		Class:           icc.DisplayDeviceProfile,
		ColorSpace:      icc.RGBSpace,
		PCS:             icc.PCSXYZSpace,
		CreationDate:    time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		RenderingIntent: icc.Perceptual,
		TagData: map[icc.TagType][]byte{
			icc.ProfileDescription: descTag("sRGB"),
			icc.Copyright:          textTag("No copyright, use freely"),
			tagMediaWhitePoint:     xyzTag(0.9642, 1.0, 0.8249),
			tagRedColorant:         xyzTag(0.4361, 0.2225, 0.0139),
			tagGreenColorant:       xyzTag(0.3851, 0.7169, 0.0971),
			tagBlueColorant:        xyzTag(0.1431, 0.0606, 0.7141),
			tagRedTRC:              curve,
			tagGreenTRC:            curve,
			tagBlueTRC:             curve,
		},
	}
	return p.Encode()
})

func textTag(s string) []byte {
	buf := make([]byte, 8, 8+len(s)+1)
	copy(buf, "text")
	buf = append(buf, s...)
	return append(buf, 0)
}

// descTag encodes a version 2 textDescriptionType, with empty Unicode and
// ScriptCode parts.
func descTag(s string) []byte {
	buf := make([]byte, 12, 12+len(s)+1+4+4+2+1+67)
	copy(buf, "desc")
	binary.BigEndian.PutUint32(buf[8:], uint32(len(s)+1))
	buf = append(buf, s...)
	buf = append(buf, 0)
	return append(buf, make([]byte, 4+4+2+1+67)...)
}

func xyzTag(x, y, z float64) []byte {
	buf := make([]byte, 20)
	copy(buf, "XYZ ")
	for i, v := range []float64{x, y, z} {
		binary.BigEndian.PutUint32(buf[8+4*i:], uint32(int32(math.Round(v*65536))))
	}
	return buf
}

// srgbCurve tabulates the sRGB transfer function as a curveType.
func srgbCurve() []byte {
	buf := make([]byte, 12+2*srgbCurveSize)
	copy(buf, "curv")
	binary.BigEndian.PutUint32(buf[8:], srgbCurveSize)
	for i := range srgbCurveSize {
		v := float64(i) / (srgbCurveSize - 1)
		var lin float64
		if v <= 0.04045 {
			lin = v / 12.92
		} else {
			lin = math.Pow((v+0.055)/1.055, 2.4)
		}
		binary.BigEndian.PutUint16(buf[12+2*i:], uint16(math.Round(lin*65535)))
	}
	return buf
}
