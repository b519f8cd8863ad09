// Package pointcloud models classified LiDAR point records and their
// partitioning by semantic class.
package pointcloud

// Class is an ASPRS-style point classification code. The set is open but
// bounded: codes outside the well-known values are preserved and reported
// in a catch-all bucket, never silently dropped.
type Class uint8

const (
	ClassNeverClassified  Class = 0
	ClassUnclassified     Class = 1
	ClassGround           Class = 2
	ClassLowVegetation    Class = 3
	ClassMediumVegetation Class = 4
	ClassHighVegetation   Class = 5
	ClassBuilding         Class = 6
	ClassWater            Class = 9
)

// VegetationClasses are the classes contributing to the vegetation band.
var VegetationClasses = []Class{ClassLowVegetation, ClassMediumVegetation, ClassHighVegetation}

func (c Class) Known() bool {
	switch c {
	case ClassNeverClassified, ClassUnclassified, ClassGround,
		ClassLowVegetation, ClassMediumVegetation, ClassHighVegetation,
		ClassBuilding, ClassWater:
		return true
	}
	return false
}

func (c Class) String() string {
	switch c {
	case ClassNeverClassified:
		return "never_classified"
	case ClassUnclassified:
		return "unclassified"
	case ClassGround:
		return "ground"
	case ClassLowVegetation:
		return "low_vegetation"
	case ClassMediumVegetation:
		return "medium_vegetation"
	case ClassHighVegetation:
		return "high_vegetation"
	case ClassBuilding:
		return "building"
	case ClassWater:
		return "water"
	}
	return "other"
}

// Point is one LiDAR return: a 3D position plus its classification code.
// Points are immutable once loaded; collections own their points.
type Point struct {
	X, Y, Z float64
	Class   Class
}
