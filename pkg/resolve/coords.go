package resolve

import "strconv"

func formatVersion(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
