package ctdf

import (
	"fmt"
	"strconv"
	"strings"
)

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Base strips any spur suffix, inbound-LMC becomes inbound
func (d Direction) Base() Direction {
	base, _, _ := strings.Cut(string(d), "-")
	return Direction(base)
}

// Spur returns the spur code of a spur direction, or an empty string
func (d Direction) Spur() string {
	_, spur, _ := strings.Cut(string(d), "-")
	return spur
}

// Letter is the single upper case letter operators use on the wire (O / I)
func (d Direction) Letter() string {
	base := d.Base()
	if base == "" {
		return ""
	}
	return strings.ToUpper(string(base[0]))
}

func (d Direction) Valid() bool {
	base := d.Base()
	return base == DirectionOutbound || base == DirectionInbound
}

// RouteKey identifies one direction of one route of one operator. It is a
// plain value and is never mutated once built.
type RouteKey struct {
	Operator    OperatorID `json:"operator" groups:"basic"`
	Route       string     `json:"route" groups:"basic"`
	Direction   Direction  `json:"direction" groups:"basic"`
	ServiceType int        `json:"service_type,omitempty" groups:"basic"`
}

func NewRouteKey(operator OperatorID, route string, direction Direction, serviceType int) RouteKey {
	return RouteKey{
		Operator:    operator,
		Route:       route,
		Direction:   direction,
		ServiceType: serviceType,
	}
}

// VariantKey is the key the route is stored under inside RouteMetadata
func (k RouteKey) VariantKey() string {
	if k.ServiceType == 0 {
		return string(k.Direction)
	}
	return fmt.Sprintf("%s/%d", k.Direction, k.ServiceType)
}

func (k RouteKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Operator, k.Route, k.VariantKey())
}

// ParseVariantKey reverses VariantKey
func ParseVariantKey(variant string) (Direction, int) {
	direction, serviceType, found := strings.Cut(variant, "/")
	if !found {
		return Direction(direction), 0
	}

	st, err := strconv.Atoi(serviceType)
	if err != nil {
		return Direction(variant), 0
	}
	return Direction(direction), st
}

// StopRef points at a stop on a route. Depending on the operator the
// identifier is a sequence number, a stop code or a station code.
type StopRef struct {
	StopID string `json:"stop_id" groups:"basic"`
	Seq    int    `json:"seq,omitempty" groups:"basic"`
}

func NewStopRef(stop string) StopRef {
	ref := StopRef{StopID: stop}
	if seq, err := strconv.Atoi(stop); err == nil {
		ref.Seq = seq
	}
	return ref
}
