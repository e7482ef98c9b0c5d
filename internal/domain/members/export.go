package members

import (
	"encoding/csv"
	"io"
)

var exportHeader = []string{"last_name", "first_name", "email", "phone", "baptismal_status", "sex", "membership_date"}

var baptismalLabels = map[BaptismalStatus]string{
	BaptizedHere:      "Baptized here",
	NotBaptized:       "Not baptized",
	BaptizedElsewhere: "Baptized elsewhere",
}

var sexLabels = map[Sex]string{
	SexMale:   "Male",
	SexFemale: "Female",
}

// WriteCSV writes members as CSV rows with a header line. Membership dates use
// the dd/mm/yyyy layout.
func WriteCSV(w io.Writer, items []Member) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, item := range items {
		sex := ""
		if item.Sex != nil {
			sex = sexLabels[*item.Sex]
		}
		membership := ""
		if !item.MembershipDate.IsZero() {
			membership = item.MembershipDate.Format("02/01/2006")
		}
		row := []string{
			item.LastName,
			item.FirstName,
			item.Email,
			item.Phone,
			baptismalLabels[item.BaptismalStatus],
			sex,
			membership,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
