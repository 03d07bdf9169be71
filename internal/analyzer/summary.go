package analyzer

// Summary computes class-wide statistics. Students without grades count
// towards Students only. Ties for best and worst go to the name that sorts
// first.
func (a *Analyzer) Summary() ClassSummary {
	var cs ClassSummary
	var gradeSum, avgSum float64

	for _, name := range a.Names() {
		s := a.students[name]
		cs.Students++
		if len(s.Grades) == 0 {
			continue
		}

		cs.Graded++
		cs.Grades += len(s.Grades)
		for _, g := range s.Grades {
			gradeSum += g
		}

		avg := s.Average()
		avgSum += avg
		if cs.Best == "" || avg > cs.BestAverage {
			cs.Best, cs.BestAverage = name, avg
		}
		if cs.Worst == "" || avg < cs.WorstAverage {
			cs.Worst, cs.WorstAverage = name, avg
		}
	}

	if cs.Grades > 0 {
		cs.GradeMean = gradeSum / float64(cs.Grades)
	}
	if cs.Graded > 0 {
		cs.AverageMean = avgSum / float64(cs.Graded)
	}
	return cs
}
