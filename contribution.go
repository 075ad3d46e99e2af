package attribution

// Contribution returns how much each row contributed to the total return:
// its allocation times its return. Feed it the output of Extract for a
// group-wise view, or Extract over InstrumentAllocation for an instrument-wise
// one. The contributions sum to the portfolio return.
func Contribution(rows []GroupReturnRow) []ContributionRow {
	res := make([]ContributionRow, 0, len(rows))
	for _, r := range rows {
		res = append(res, ContributionRow{
			Group:        r.Group,
			Date:         r.Date,
			Alloc:        r.Alloc,
			Return:       r.Return,
			Contribution: r.Alloc * r.Return,
		})
	}
	return res
}
