// This file contains the weapon canonicalization table: DoD weapon index
// to canonical display name, with scoped/unscoped K98 variants kept
// distinct since they're different weapons for tally purposes.

package demparser

import (
	"fmt"

	"github.com/dodanalysis/dodrep/dodlog"
)

// weaponByIndex maps the byte weapon_index carried in DeathMsg to its
// canonical name. It is used only as a fallback when the message's
// embedded weapon_name is empty; a present weapon_name is kept as sent.
var weaponByIndex = map[byte]string{
	1:  "Knife",
	2:  "Colt",
	3:  "P38",
	4:  "M1Carbine",
	5:  "Thompson",
	6:  "MP40",
	7:  "M1Garand",
	8:  "K43",
	9:  "K98",
	10: "ScopedK98",
	11: "SpringfieldScoped",
	12: "FG42",
	13: "FG42Scoped",
	14: "BAR",
	15: "MG42",
	16: "MG34",
	17: "Bazooka",
	18: "Panzerschreck",
	19: "StickGrenade",
	20: "MillsBomb",
	21: "Smoke",
	22: "Spade",
	23: "Amerknife",
	24: "Springfield",
	25: "M1911",
	26: "Riflegrenade",
	27: "Panzerfaust",
}

// selfInflictedWeaponIndexes are weapon indexes that indicate a death
// wasn't attributable to another player (world damage, fall damage,
// drowning, etc.); DeathMsg events for these still get emitted, but never
// produce a kill credit even when killer != victim (e.g. killed by the
// same grenade that also kills its thrower is still the thrower's kill;
// it's environmental causes that are excluded here).
var selfInflictedWeaponIndexes = map[byte]bool{
	0:   true, // world
	254: true, // fall damage
	255: true, // drowning / trigger_hurt
}

// canonicalWeaponName resolves the canonical display name for a kill,
// preferring the DeathMsg's embedded name, falling back to the index
// table, and finally synthesizing a verbatim placeholder so a kill is
// never dropped from the tally for want of a name. The two fallback paths
// are heuristics, so both are recorded as diagnostics and logged at Warn.
func canonicalWeaponName(ctx *decodeContext, index byte, embeddedName string) string {
	if embeddedName != "" {
		return embeddedName
	}

	if name, ok := weaponByIndex[index]; ok {
		ctx.diagnose("DeathMsg missing weapon_name, resolved from weapon_index table",
			dodlog.F("weapon_index", index), dodlog.F("resolved_name", name))
		return name
	}

	name := fmt.Sprintf("weapon_%d", index)
	ctx.diagnose("DeathMsg missing weapon_name and weapon_index is not in the known table, synthesizing a placeholder name",
		dodlog.F("weapon_index", index), dodlog.F("resolved_name", name))
	return name
}

// isEnvironmentalDeath reports whether a weapon index indicates a death
// the match reconstructor should never credit as a kill, regardless of
// killer/victim slots.
func isEnvironmentalDeath(index byte) bool {
	return selfInflictedWeaponIndexes[index]
}
