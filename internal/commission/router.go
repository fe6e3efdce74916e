package commission

import "strings"

// InfoRoot is the navigation segment under which commission pages live.
const InfoRoot = "info"

// FromPath derives the commission for a dashboard path such as
// /dashboard/info/historia. The segment after InfoRoot names the commission;
// without one the path belongs to General. A segment that is not a known
// commission is rejected rather than folded into General.
func FromPath(path string) (Commission, error) {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part != InfoRoot {
			continue
		}
		if i+1 < len(parts) && parts[i+1] != "" {
			return Parse(parts[i+1])
		}
		break
	}
	return General, nil
}
