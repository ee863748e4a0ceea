package checklist

import "context"

// PhotoLookup resolves an illustrative photo URL for a species common name.
// It reports false when no photo is available and never fails.
type PhotoLookup func(ctx context.Context, name string) (string, bool)

// ResolveCount picks the observation's "at least" count when present and
// otherwise its "at most" count. A missing or zero count resolves to the
// unknown sentinel; a zero "at least" does not fall through to "at most".
func ResolveCount(obs Observation) Count {
	v := obs.HowManyAtleast
	if v == nil {
		v = obs.HowManyAtmost
	}
	if v == nil || *v == 0 {
		return UnknownCount()
	}
	return KnownCount(*v)
}

// Assemble joins the taxonomy, the checklist payload and the photo lookups
// into a Summary. Observations keep their checklist order. A nil photos
// lookup skips photo enrichment; an empty location becomes UnknownLocation.
func Assemble(ctx context.Context, taxonomy Taxonomy, cl Checklist, location string, photos PhotoLookup) Summary {
	if location == "" {
		location = UnknownLocation
	}
	species := make([]SpeciesEntry, 0, len(cl.Obs))
	for _, obs := range cl.Obs {
		info := taxonomy.Lookup(obs.SpeciesCode)
		entry := SpeciesEntry{
			Code:    obs.SpeciesCode,
			Name:    info.Name,
			SciName: info.SciName,
			Count:   ResolveCount(obs),
		}
		if photos != nil {
			if photoURL, ok := photos(ctx, info.Name); ok {
				entry.PhotoURL = photoURL
			}
		}
		species = append(species, entry)
	}
	return Summary{
		Location: location,
		Date:     FormatDate(cl.ObsDt),
		Species:  species,
	}
}
