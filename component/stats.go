package component

// StatBlock holds the raw combat attributes of an entity.
type StatBlock struct {
	HP             int     `yaml:"hp"`
	Attack         int     `yaml:"attack"`
	Defense        int     `yaml:"defense"`
	SpecialAttack  int     `yaml:"special_attack"`
	SpecialDefense int     `yaml:"special_defense"`
	Speed          float64 `yaml:"speed"`
	CritRate       float64 `yaml:"crit_rate"`
	AttackSpeed    float64 `yaml:"attack_speed"`
}

func DefaultStatBlock() StatBlock {
	return StatBlock{
		HP:             100,
		Attack:         10,
		Defense:        5,
		SpecialAttack:  10,
		SpecialDefense: 5,
		Speed:          5,
		CritRate:       0.05,
		AttackSpeed:    1,
	}
}

// AttackCooldown is the delay between basic attacks in seconds.
func (s StatBlock) AttackCooldown() float64 {
	if s.AttackSpeed <= 0 {
		return 1
	}
	return 1 / s.AttackSpeed
}

func (s StatBlock) sanitized() StatBlock {
	if s.HP < 1 {
		s.HP = 1
	}
	if s.CritRate < 0 {
		s.CritRate = 0
	}
	if s.CritRate > 1 {
		s.CritRate = 1
	}
	return s
}

// Growth is the per-level stat increment.
type Growth struct {
	HP             int     `yaml:"hp"`
	Attack         int     `yaml:"attack"`
	Defense        int     `yaml:"defense"`
	SpecialAttack  int     `yaml:"special_attack"`
	SpecialDefense int     `yaml:"special_defense"`
	Speed          float64 `yaml:"speed"`
	CritRate       float64 `yaml:"crit_rate"`
}

func DefaultGrowth() Growth {
	return Growth{
		HP:             20,
		Attack:         5,
		Defense:        3,
		SpecialAttack:  5,
		SpecialDefense: 3,
		Speed:          0.2,
		CritRate:       0.02,
	}
}

// Apply raises every stat by g and clamps CritRate to 1.
func (g Growth) Apply(s StatBlock) StatBlock {
	s.HP += g.HP
	s.Attack += g.Attack
	s.Defense += g.Defense
	s.SpecialAttack += g.SpecialAttack
	s.SpecialDefense += g.SpecialDefense
	s.Speed += g.Speed
	s.CritRate += g.CritRate
	if s.CritRate > 1 {
		s.CritRate = 1
	}
	return s
}
