package pantry

import "time"

// Product 庫存品項
// BestBefore 或 Opened 未設定時以零值表示
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	BestBefore      time.Time `json:"best_before"`
	Opened          time.Time `json:"opened"`
	ConsumptionDays int       `json:"consumption_days"` // 開封後可食用天數
}

// 即將到期的判定窗口：[昨天, 今天+4天)
const (
	windowBefore = -1
	windowAfter  = 4
)

// reference 計算品項的到期基準日
// 取保存期限與「開封日 + 可食用天數」兩者中較早者（兩者皆設定時）
func (p Product) reference() time.Time {
	var ref time.Time

	if !p.BestBefore.IsZero() {
		ref = p.BestBefore
	}
	if !p.Opened.IsZero() && p.ConsumptionDays > 0 {
		opened := p.Opened.AddDate(0, 0, p.ConsumptionDays)
		if ref.IsZero() || opened.Before(ref) {
			ref = opened
		}
	}
	return ref
}

// ExpiringSoonAt 判斷品項在指定日期是否即將到期
func (p Product) ExpiringSoonAt(today time.Time) bool {
	ref := p.reference()
	if ref.IsZero() {
		return false
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	start := day(today).AddDate(0, 0, windowBefore)
	end := day(today).AddDate(0, 0, windowAfter)
	r := day(ref)

	return !r.Before(start) && r.Before(end)
}

// ExpiringSoon 以目前時間判斷品項是否即將到期
func (p Product) ExpiringSoon() bool {
	return p.ExpiringSoonAt(time.Now())
}
