package handlers

// maskEmail keeps the first two characters of the local part.
func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	local, domain := runes[:atIdx], string(runes[atIdx:])
	if len(local) <= 2 {
		return string(local) + "***" + domain
	}
	return string(local[:2]) + "***" + domain
}

// maskPhone hides all but the last two digits.
func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	for i := 0; i < n-2; i++ {
		runes[i] = '*'
	}
	return string(runes)
}
