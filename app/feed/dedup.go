package feed

// Dedupe drops records with an empty title and records whose link is already
// in existing. Survivors keep their input order. Repeated links inside
// incoming are left alone; see DedupeWithinBatch.
func Dedupe(incoming []Record, existing map[string]struct{}) []Record {
	out := make([]Record, 0, len(incoming))
	for _, record := range incoming {
		if record.Title == "" {
			continue
		}
		if record.Link != nil {
			if _, ok := existing[*record.Link]; ok {
				continue
			}
		}
		out = append(out, record)
	}
	return out
}

// DedupeWithinBatch keeps the first record for every link. Records without a
// link are never considered duplicates of each other.
func DedupeWithinBatch(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if record.Link != nil {
			if _, ok := seen[*record.Link]; ok {
				continue
			}
			seen[*record.Link] = struct{}{}
		}
		out = append(out, record)
	}
	return out
}

// Links returns the distinct non-empty links of records in input order.
func Links(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	links := make([]string, 0, len(records))
	for _, record := range records {
		link := record.LinkValue()
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}
