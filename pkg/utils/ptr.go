package utils

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Uint64Ptr(u uint64) *uint64 { return &u }

// StringOrDefault возвращает значение указателя либо запасное значение.
func StringOrDefault(p *string, fallback string) string {
	if p != nil && *p != "" {
		return *p
	}
	return fallback
}
