package pds3

import "time"

// PersonnelRecord is one PDS3 PERSONNEL record: one PERSONNEL_INFORMATION,
// 0..n PERSONNEL_ELECTRONIC_MAIL.
type PersonnelRecord struct {
	UserID           string
	RegistrationDate time.Time
	Emails           []string
	Properties       map[string]string
}

// ParsePersonnel validates and projects every `OBJECT = PERSONNEL` block
// in the file into a slice of [PersonnelRecord]; a personnel file may
// carry one or many records.
func ParsePersonnel(file string, root *Object) ([]PersonnelRecord, error) {
	blocks, err := requireAtLeastOne(file, root, "PERSONNEL")
	if err != nil {
		return nil, err
	}

	records := make([]PersonnelRecord, 0, len(blocks))
	for _, block := range blocks {
		info, err := requireOne(file, block, "PERSONNEL_INFORMATION")
		if err != nil {
			return nil, err
		}
		rec := PersonnelRecord{
			UserID:     info.Property("PDS_USER_ID").Str,
			Properties: properties(info, "PDS_USER_ID", "REGISTRATION_DATE"),
		}
		if v := info.Property("REGISTRATION_DATE"); v.Kind == ValueDate {
			rec.RegistrationDate = v.Date
		}
		for _, mail := range block.ChildrenOf("PERSONNEL_ELECTRONIC_MAIL") {
			if addr := mail.Property("ELECTRONIC_MAIL_ID").Str; addr != "" {
				rec.Emails = append(rec.Emails, addr)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
