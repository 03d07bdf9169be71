package analyzer

// ClassSummary aggregates statistics across the whole gradebook.
type ClassSummary struct {
	Students     int
	Graded       int     // Students with at least one grade
	Grades       int     // Total number of grades
	GradeMean    float64 // Mean of every grade, 0 when there are none
	AverageMean  float64 // Mean of the averages of graded students
	Best         string  // Graded student with the highest average
	BestAverage  float64
	Worst        string // Graded student with the lowest average
	WorstAverage float64
}
