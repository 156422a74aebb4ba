package enrich

import (
	"strconv"
	"strings"
)

// chargingFlagKeys are the four Yes/No charging switches, in output
// order.
var chargingFlagKeys = []string{
	"online_charging",
	"offline_charging",
	"prepaid_accounting",
	"service_level_cdr",
}

// Charging is the decoded billing sub-structure.
type Charging struct {
	ID       int64  `json:"id"`
	RuleName string `json:"rule_name"`

	// Characteristics and ProfileIndex arrive 0x-prefixed and are
	// decoded as base-16 integers.
	Characteristics int64 `json:"characteristics"`
	ProfileIndex    int64 `json:"profile_index"`

	OnlineCharging    bool `json:"online_charging"`
	OfflineCharging   bool `json:"offline_charging"`
	PrepaidAccounting bool `json:"prepaid_accounting"`
	ServiceLevelCDR   bool `json:"service_level_cdr"`
}

func takeCharging(rec recordBag) *Charging {
	idRaw, ok := rec.String("charging_id")
	if !ok {
		return nil
	}
	rule, ok := rec.String("rule_name")
	if !ok {
		return nil
	}
	charsRaw, ok := rec.String("charging_characteristics")
	if !ok {
		return nil
	}
	profileRaw, ok := rec.String("charging_profile_index")
	if !ok {
		return nil
	}
	flags := make([]bool, len(chargingFlagKeys))
	for i, k := range chargingFlagKeys {
		v, ok := rec.String(k)
		if !ok {
			return nil
		}
		flags[i] = parseYes(v)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(idRaw), 10, 64)
	if err != nil {
		return nil
	}
	chars, err := parseHex(charsRaw)
	if err != nil {
		return nil
	}
	profile, err := parseHex(profileRaw)
	if err != nil {
		return nil
	}

	for _, k := range append([]string{"charging_id", "rule_name", "charging_characteristics", "charging_profile_index"}, chargingFlagKeys...) {
		rec.Delete(k)
	}

	return &Charging{
		ID:                id,
		RuleName:          rule,
		Characteristics:   chars,
		ProfileIndex:      profile,
		OnlineCharging:    flags[0],
		OfflineCharging:   flags[1],
		PrepaidAccounting: flags[2],
		ServiceLevelCDR:   flags[3],
	}
}

// parseHex decodes a 0x-prefixed base-16 field.
func parseHex(v string) (int64, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "0x")
	return strconv.ParseInt(v, 16, 64)
}
