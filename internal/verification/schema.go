package verification

import "fmt"

// DocumentType is a closed set. Each type carries its own required-field list
// so adding a type forces the schema decision here, not at call sites.
type DocumentType string

const (
	DocumentAadhaar        DocumentType = "aadhaar"
	DocumentPAN            DocumentType = "pan"
	DocumentDrivingLicense DocumentType = "driving_license"
	DocumentPassport       DocumentType = "passport"
	DocumentVoterID        DocumentType = "voter_id"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentAadhaar, DocumentPAN, DocumentDrivingLicense, DocumentPassport, DocumentVoterID:
		return DocumentType(s), nil
	default:
		return "", fmt.Errorf("unknown document type: %s", s)
	}
}

var requiredFields = map[DocumentType][]string{
	DocumentAadhaar: {
		"number", "name", "dob", "gender", "address", "state", "pincode",
		"front_image_url", "back_image_url",
	},
	DocumentPAN: {
		"number", "name", "father_name", "dob", "image_url",
	},
	DocumentDrivingLicense: {
		"number", "name", "dob", "valid_until", "state", "image_url",
	},
	DocumentPassport: {
		"number", "name", "dob", "nationality", "valid_until", "image_url",
	},
	DocumentVoterID: {
		"number", "name", "dob", "address", "state", "image_url",
	},
}

func (t DocumentType) RequiredFields() []string {
	return requiredFields[t]
}

// ValidateData checks the submitted field map against the type's schema and
// reports every missing or empty required field, not just the first.
func ValidateData(t DocumentType, data map[string]string) error {
	var missing []string
	for _, f := range requiredFields[t] {
		if data[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{DocumentType: t, Missing: missing}
	}
	return nil
}
