package loot

import (
	"fmt"
	"math/bits"
	"strings"
)

// Tag classifies encounters for filtering: content pack, rarity class and
// mechanical class. Tags combine with | and are tested with a single &.
type Tag uint32

const (
	TagPiratesBooty Tag = 1 << iota
	TagCampaignOfCarnage
	TagHammerlocksHunt
	TagDragonKeep
	TagFightForSanctuary
	TagBloodyHarvest
	TagWattleGobbler
	TagMercenaryDay
	TagWeddingDayMassacre
	TagSonOfCrawmerax
	TagDigistructPeak

	TagSlowEnemy
	TagRareEnemy
	TagVeryRareEnemy
	TagEvolvedEnemy
	TagRaidEnemy
	TagDigistructEnemy
	TagMobFarm
	TagLongMission

	tagEnd
)

// TagAll has every defined tag set.
const TagAll = tagEnd - 1

var tagNames = [...]string{
	"pirates_booty",
	"campaign_of_carnage",
	"hammerlocks_hunt",
	"dragon_keep",
	"fight_for_sanctuary",
	"bloody_harvest",
	"wattle_gobbler",
	"mercenary_day",
	"wedding_day_massacre",
	"son_of_crawmerax",
	"digistruct_peak",
	"slow_enemy",
	"rare_enemy",
	"very_rare_enemy",
	"evolved_enemy",
	"raid_enemy",
	"digistruct_enemy",
	"mob_farm",
	"long_mission",
}

// Has reports whether any bit of flag is set in t.
func (t Tag) Has(flag Tag) bool {
	return t&flag != 0
}

// Within reports whether every bit of t is set in enabled.
func (t Tag) Within(enabled Tag) bool {
	return t&^enabled == 0
}

// Names returns the names of the set tags in declaration order.
func (t Tag) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(t)))
	for i, name := range tagNames {
		if t&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	return strings.Join(t.Names(), "|")
}

// ParseTag resolves a single tag name.
func ParseTag(name string) (Tag, error) {
	for i, n := range tagNames {
		if n == name {
			return 1 << i, nil
		}
	}
	return 0, fmt.Errorf("tag %q: %w", name, ErrUnknownTag)
}

// ParseTags ORs together the named tags.
func ParseTags(names []string) (Tag, error) {
	var t Tag
	for _, name := range names {
		flag, err := ParseTag(name)
		if err != nil {
			return 0, err
		}
		t |= flag
	}
	return t, nil
}
