package enrich

import (
	"strconv"
	"strings"
)

// QoS holds the negotiated and requested quality-of-service profiles.
// Either side is nil when its source fields are absent.
type QoS struct {
	Negotiated *QoSProfile `json:"negotiated,omitempty"`
	Requested  *QoSProfile `json:"requested,omitempty"`
}

// QoSProfile is one decoded QoS descriptor set.
type QoSProfile struct {
	QCI          int  `json:"qci"`
	ARP          ARP  `json:"arp"`
	DSCPUplink   int  `json:"dscp_uplink"`
	DSCPDownlink int  `json:"dscp_downlink"`

	// Bit rates are kept as the frontend's strings; the literal token
	// NULL maps to absent, not to the string "NULL".
	GBRDownlink *string `json:"gbr_downlink"`
	GBRUplink   *string `json:"gbr_uplink"`
	MBRDownlink *string `json:"mbr_downlink"`
	MBRUplink   *string `json:"mbr_uplink"`
}

// ARP is the allocation/retention priority descriptor.
type ARP struct {
	PriorityLevel           int  `json:"priority_level"`
	PreemptionCapability    bool `json:"preemption_capability"`
	PreemptionVulnerability bool `json:"preemption_vulnerability"`
}

func takeQoS(rec recordBag) *QoS {
	qos := &QoS{
		Negotiated: takeQoSProfile(rec, "negotiated"),
		Requested:  takeQoSProfile(rec, "requested"),
	}
	if qos.Negotiated == nil && qos.Requested == nil {
		return nil
	}
	return qos
}

// takeQoSProfile projects one prefix variant ("negotiated" or
// "requested"). All integer fields must parse for the profile to be
// taken; otherwise the fields stay in the bag.
func takeQoSProfile(rec recordBag, prefix string) *QoSProfile {
	key := func(suffix string) string { return prefix + "_" + suffix }

	intKeys := []string{
		key("qci"),
		key("arp_priority_level"),
		key("dscp_uplink"),
		key("dscp_downlink"),
	}
	ints := make([]int, len(intKeys))
	for i, k := range intKeys {
		v, ok := rec.String(k)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		ints[i] = n
	}

	capability, ok := rec.String(key("arp_preemption_capability"))
	if !ok {
		return nil
	}
	vulnerability, ok := rec.String(key("arp_preemption_vulnerability"))
	if !ok {
		return nil
	}

	rateKeys := []string{
		key("gbr_downlink"), key("gbr_uplink"),
		key("mbr_downlink"), key("mbr_uplink"),
	}
	rates := make([]*string, len(rateKeys))
	for i, k := range rateKeys {
		v, ok := rec.String(k)
		if !ok {
			return nil
		}
		rates[i] = nullableRate(v)
	}

	consumed := append(append([]string{}, intKeys...), key("arp_preemption_capability"), key("arp_preemption_vulnerability"))
	consumed = append(consumed, rateKeys...)
	for _, k := range consumed {
		rec.Delete(k)
	}

	return &QoSProfile{
		QCI: ints[0],
		ARP: ARP{
			PriorityLevel:           ints[1],
			PreemptionCapability:    parseYes(capability),
			PreemptionVulnerability: parseYes(vulnerability),
		},
		DSCPUplink:   ints[2],
		DSCPDownlink: ints[3],
		GBRDownlink:  rates[0],
		GBRUplink:    rates[1],
		MBRDownlink:  rates[2],
		MBRUplink:    rates[3],
	}
}

// nullableRate maps the frontend's NULL token to an absent value.
func nullableRate(v string) *string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "NULL") {
		return nil
	}
	return &v
}

// AMBR is the aggregate maximum bit rate pair. The source values carry
// a Kbps unit suffix that is stripped before conversion.
type AMBR struct {
	DownlinkKbps int `json:"downlink_kbps"`
	UplinkKbps   int `json:"uplink_kbps"`
}

func takeAMBR(rec recordBag) *AMBR {
	down, ok := rec.String("ambr_downlink")
	if !ok {
		return nil
	}
	up, ok := rec.String("ambr_uplink")
	if !ok {
		return nil
	}

	downKbps, err := parseKbps(down)
	if err != nil {
		return nil
	}
	upKbps, err := parseKbps(up)
	if err != nil {
		return nil
	}

	rec.Delete("ambr_downlink")
	rec.Delete("ambr_uplink")
	return &AMBR{DownlinkKbps: downKbps, UplinkKbps: upKbps}
}

func parseKbps(v string) (int, error) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "Kbps"))
	return strconv.Atoi(v)
}
