package domain

// Department is an organizational unit requesters pick from when filing a ticket.
type Department struct {
	ID   string
	Name string
}

// Departments is the fixed list offered to the public submission form.
// Tickets store the chosen name as free text and are not validated against it.
var Departments = []Department{
	{ID: "dept_it", Name: "Information Technology"},
	{ID: "dept_hr", Name: "Human Resources"},
	{ID: "dept_finance", Name: "Finance"},
	{ID: "dept_ops", Name: "Operations"},
	{ID: "dept_planning", Name: "Planning & Development"},
	{ID: "dept_research", Name: "Research & Extension"},
	{ID: "dept_crops", Name: "Crop Management"},
}
