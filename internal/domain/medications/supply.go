package medications

import "time"

// DaysRemaining calcula quantos dias de estoque restam na data de hoje.
// É recalculado em toda leitura; nunca é um valor guardado nem aceito do
// cliente, para não existir versão desatualizada.
//
// A função é pura e total: nunca retorna erro. Com startDate ausente ou
// dose diária <= 0 o resultado é 0. O resultado pode ser negativo
// (estoque esgotado há N dias) e não é truncado aqui: quem apresenta o
// valor decide como mostrar.
func DaysRemaining(startDate *time.Time, boxSize, dailyDose int, today time.Time) int {
	if startDate == nil || dailyDose <= 0 {
		return 0
	}

	// Divisão inteira de propósito: meia dose sobrando não é um dia.
	totalDays := boxSize / dailyDose

	// Dias corridos entre as duas datas, ignorando hora e fuso.
	// Negativo quando a caixa ainda nem começou (startDate futura),
	// o que resulta em mais dias que a duração da caixa. Ok.
	elapsed := int(atMidnightUTC(today).Sub(atMidnightUTC(*startDate)).Hours() / 24)

	return totalDays - elapsed
}

func atMidnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
