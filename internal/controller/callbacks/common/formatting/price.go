package formatting

import "fmt"

// FormatPrice форматирует индивидуальную цену ученика
func FormatPrice(price *int) string {
	if price == nil {
		return "стандартная"
	}
	return fmt.Sprintf("%d ₽", *price)
}
