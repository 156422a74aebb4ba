package session

import "fmt"

// PDPQuery builds the DSP PDPCTXT command querying packet data
// contexts by one subscriber key type (e.g. MSISDN, IMSI).
func PDPQuery(queryType, value string) string {
	return fmt.Sprintf(`DSP PDPCTXT:QUERYTYPE=%s,%s=%q;`, queryType, queryType, value)
}

// MMQuery builds the DSP MMCTX command querying mobility management
// context by one subscriber key type.
func MMQuery(queryType, value string) string {
	return fmt.Sprintf(`DSP MMCTX:QUERYOPT=BY%s,%s=%q;`, queryType, queryType, value)
}
