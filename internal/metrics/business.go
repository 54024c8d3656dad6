package metrics

// IncrementBoardCreated increments the board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementBoardDeleted increments the board deletion counter
func (m *Metrics) IncrementBoardDeleted() {
	m.safeExecute("IncrementBoardDeleted", func() {
		m.BoardDeletedTotal.Inc()
	})
}

// IncrementMemberJoined increments the successful join counter
func (m *Metrics) IncrementMemberJoined() {
	m.safeExecute("IncrementMemberJoined", func() {
		m.MemberJoinedTotal.Inc()
	})
}

// IncrementMemberLeft increments the successful leave counter
func (m *Metrics) IncrementMemberLeft() {
	m.safeExecute("IncrementMemberLeft", func() {
		m.MemberLeftTotal.Inc()
	})
}

// IncrementJoinRejected increments the rejected join counter for a reason
// (already_member, board_full, invalid_code)
func (m *Metrics) IncrementJoinRejected(reason string) {
	m.safeExecute("IncrementJoinRejected", func() {
		m.JoinRejectedTotal.WithLabelValues(reason).Inc()
	})
}

// SetBoardsTotal sets the total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetMembershipsTotal sets the total memberships gauge
func (m *Metrics) SetMembershipsTotal(count int64) {
	m.safeExecute("SetMembershipsTotal", func() {
		m.MembershipsTotal.Set(float64(count))
	})
}
