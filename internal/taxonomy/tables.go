package taxonomy

var departments = []Entry{
	{Code: "1", Label: "Computer Science & Engineering"},
	{Code: "2", Label: "Information Technology"},
	{Code: "3", Label: "Electronics & Communication"},
	{Code: "4", Label: "Electrical & Electronics"},
	{Code: "5", Label: "Mechanical Engineering"},
	{Code: "6", Label: "Civil Engineering"},
	{Code: "7", Label: "Artificial Intelligence"},
	{Code: "8", Label: "MBA"},
	{Code: "9", Label: "BBA"},
	{Code: "10", Label: "B.Com"},
	{Code: OtherCode, Label: OtherLabel},
}

// Notices is the taxonomy for notice records.
var Notices = Set{
	Categories: NewTable("notice categories",
		Entry{Code: "1", Label: "Academic"},
		Entry{Code: "2", Label: "Event"},
		Entry{Code: "3", Label: "Emergency"},
		Entry{Code: "4", Label: "Placement"},
		Entry{Code: "5", Label: "Examination"},
		Entry{Code: "6", Label: "Scholarship"},
		Entry{Code: "7", Label: "Sports"},
		Entry{Code: "8", Label: "Hostel"},
		Entry{Code: "9", Label: "Library"},
		Entry{Code: "10", Label: "Competition"},
		Entry{Code: OtherCode, Label: OtherLabel},
	),
	Departments: NewTable("departments", departments...),
}

// Complaints is the taxonomy for complaint records.
var Complaints = Set{
	Categories: NewTable("complaint categories",
		Entry{Code: "1", Label: "Internal Marks Issue"},
		Entry{Code: "2", Label: "Attendance Shortage Dispute"},
		Entry{Code: "3", Label: "Exam Timetable Conflict"},
		Entry{Code: "4", Label: "Result Correction Request"},
		Entry{Code: "5", Label: "Faculty Behavior Complaint"},
		Entry{Code: "6", Label: "Project Evaluation Issue"},
		Entry{Code: "7", Label: "Ragging Complaint"},
		Entry{Code: "8", Label: "Verbal Harassment"},
		Entry{Code: "9", Label: "Physical Harassment"},
		Entry{Code: "10", Label: "Cyber Bullying"},
		Entry{Code: "11", Label: "Sexual Harassment"},
		Entry{Code: "12", Label: "Gender Discrimination"},
		Entry{Code: "13", Label: "Classroom Maintenance"},
		Entry{Code: "14", Label: "Washroom Cleanliness"},
		Entry{Code: "15", Label: "Drinking Water Problem"},
		Entry{Code: "16", Label: "Electrical Issue"},
		Entry{Code: "17", Label: "Hostel Room Allocation"},
		Entry{Code: "18", Label: "Hostel Food Quality"},
		Entry{Code: "19", Label: "Hostel WiFi Problem"},
		Entry{Code: "20", Label: "Library Resources"},
		Entry{Code: "22", Label: "Bus/Transport Issue"},
		Entry{Code: "24", Label: "Certificate Delay"},
		Entry{Code: "25", Label: "Scholarship Issue"},
		Entry{Code: "27", Label: "Portal/IT Login Issue"},
		Entry{Code: "30", Label: "Campus Security Concern"},
		Entry{Code: OtherCode, Label: OtherLabel},
	),
	Departments: NewTable("departments", departments...),
}

var sets = map[string]Set{
	"notice":    Notices,
	"complaint": Complaints,
}

// Lookup returns the Set registered under name ("notice" or "complaint").
func Lookup(name string) (Set, bool) {
	s, ok := sets[name]
	return s, ok
}
