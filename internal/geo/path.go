package geo

import "math"

// below this arc (radians, well under a metre) the endpoints are treated as one
const coincidentEpsilon = 1e-7

type vec3 struct{ x, y, z float64 }

func toVec(lat, lon float64) vec3 {
	la, lo := toRad(lat), toRad(lon)
	return vec3{
		x: math.Cos(la) * math.Cos(lo),
		y: math.Cos(la) * math.Sin(lo),
		z: math.Sin(la),
	}
}

// Path interpolates the great circle from start to end and returns steps+1
// points. Longitudes are unwrapped so consecutive points never jump by more
// than 180 degrees, which keeps antimeridian crossings drawable as one line.
func Path(start, end Point, steps int) []Point {
	if steps < 1 {
		steps = 1
	}

	endLon := end.Lon
	switch d := endLon - start.Lon; {
	case d > 180:
		endLon -= 360
	case d < -180:
		endLon += 360
	}

	v1 := toVec(start.Lat, start.Lon)
	v2 := toVec(end.Lat, endLon)

	dot := v1.x*v2.x + v1.y*v2.y + v1.z*v2.z
	c := math.Acos(math.Max(-1, math.Min(1, dot)))

	points := make([]Point, steps+1)
	if c < coincidentEpsilon {
		for i := range points {
			points[i] = start
		}
		return points
	}

	sinC := math.Sin(c)
	antipodal := math.Pi-c < coincidentEpsilon

	lastLon := start.Lon
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)

		var lat, lon float64
		if antipodal {
			// every great circle qualifies, fall back to a straight lerp
			lat = start.Lat + (end.Lat-start.Lat)*t
			lon = start.Lon + (endLon-start.Lon)*t
		} else {
			a := math.Sin((1-t)*c) / sinC
			b := math.Sin(t*c) / sinC
			x := a*v1.x + b*v2.x
			y := a*v1.y + b*v2.y
			z := a*v1.z + b*v2.z
			lat = toDeg(math.Atan2(z, math.Sqrt(x*x+y*y)))
			lon = toDeg(math.Atan2(y, x))
		}

		if i > 0 {
			for lon-lastLon > 180 {
				lon -= 360
			}
			for lon-lastLon < -180 {
				lon += 360
			}
		}
		lastLon = lon
		points[i] = Point{Lat: lat, Lon: lon}
	}

	points[0] = start
	return points
}
