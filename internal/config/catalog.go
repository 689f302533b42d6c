package config

// Built-in option sets, used when the config file does not override them.
// "Other" is the only free-text escape value and only for companies.

func DefaultVenues() []string {
	return []string{
		"Multipurpose Hall",
		"Swimming Pool",
		"Tennis Court",
		"Volleyball Court",
		"Football Court",
		"Gym & Fitness Center",
		"Billiards Room",
		"Table Tennis Room",
		"Cycling Track",
		"Outdoor Sports Area",
		"Community Garden",
		"Event Plaza",
	}
}

func DefaultCompanies() []string {
	return []string{
		"MAG",
		"NEOM",
		"Contractor Services",
		"Facility Management",
		"Other",
	}
}

func DefaultDesignations() []string {
	return []string{
		"SAFETY OFFICER",
		"PROJECT MANAGER",
		"SUPERVISOR",
		"TECHNICIAN",
		"ADMINISTRATOR",
		"RESIDENT",
		"OTHER",
	}
}
