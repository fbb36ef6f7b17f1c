// This file contains general enum types shared across the decoder and the
// match report.

package demcore

import "fmt"

// Enum is the base / common part of enum types.
type Enum struct {
	// Name of the entity
	Name string
}

// String returns the string representation of the enum (the name).
// Defined with value receiver so this gets called even if a non-pointer is used.
func (e Enum) String() string {
	return e.Name
}

// UnknownEnum constructs a new Enum for an unknown entity with a name:
//
//	"Unknown 0xID"
func UnknownEnum(id any) Enum {
	return Enum{fmt.Sprintf("Unknown 0x%x", id)}
}

// Team is the side a player is assigned to.
type Team struct {
	Enum

	// ID as it appears in DoD user messages
	ID byte
}

// Teams is an enumeration of the possible teams.
var Teams = []*Team{
	{Enum{"Unassigned"}, 0},
	{Enum{"Allies"}, 1},
	{Enum{"Axis"}, 2},
	{Enum{"Spectator"}, 3},
}

// Named teams.
var (
	TeamUnassigned = Teams[0]
	TeamAllies     = Teams[1]
	TeamAxis       = Teams[2]
	TeamSpectator  = Teams[3]
)

// TeamByID returns the Team for the given ID.
// An Unknown team is returned (preserving the ID) if one is not found.
func TeamByID(id byte) *Team {
	for _, t := range Teams {
		if t.ID == id {
			return t
		}
	}
	return &Team{UnknownEnum(id), id}
}

// Class is a DoD player class. Class indices are team-dependent: the same
// index means a different class for Allies than for Axis.
type Class struct {
	Enum

	// ID as it appears in PClass / ScoreShort messages
	ID byte
}

// AlliesClasses is the class table used when Team == TeamAllies.
var AlliesClasses = []*Class{
	{Enum{"Rifleman"}, 0},
	{Enum{"Assault"}, 1},
	{Enum{"Support Infantry"}, 2},
	{Enum{"Sniper"}, 3},
	{Enum{"Machine Gunner"}, 4},
	{Enum{"Rocket"}, 5},
}

// AxisClasses is the class table used when Team == TeamAxis.
var AxisClasses = []*Class{
	{Enum{"Rifleman"}, 0},
	{Enum{"Assault"}, 1},
	{Enum{"Support Infantry"}, 2},
	{Enum{"Sniper"}, 3},
	{Enum{"Machine Gunner"}, 4},
	{Enum{"Rocket"}, 5},
}

// ClassByID returns the Class for the given team and class index.
// Spectators and unassigned players have no class: nil is returned.
func ClassByID(team *Team, id byte) *Class {
	var table []*Class
	switch team {
	case TeamAllies:
		table = AlliesClasses
	case TeamAxis:
		table = AxisClasses
	default:
		return nil
	}
	if int(id) < len(table) {
		return table[id]
	}
	c := &Class{UnknownEnum(id), id}
	return c
}
