package forms

import (
	"errors"
	"strconv"
)

// Account: аргументы /signup и /settings: имя, пароль, день закрытия, цель.
type Account struct {
	Username   string
	Password   string
	ClosingDay int
	GoalAmount int64
}

// ParseAccount разбирает "имя пароль [день_закрытия цель]". Без последних
// двух аргументов берутся значения по умолчанию.
func ParseAccount(args []string, defaultClosingDay int, defaultGoal int64) (Account, error) {
	if len(args) != 2 && len(args) != 4 {
		return Account{}, errors.New("ожидается: имя пароль [день_закрытия цель]")
	}
	a := Account{
		Username:   args[0],
		Password:   args[1],
		ClosingDay: defaultClosingDay,
		GoalAmount: defaultGoal,
	}
	if len(args) == 4 {
		day, err := strconv.Atoi(args[2])
		if err != nil || day < 1 || day > 31 {
			return Account{}, errors.New("день закрытия — число от 1 до 31")
		}
		goal, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil || goal < 0 {
			return Account{}, errors.New("цель — целое неотрицательное число")
		}
		a.ClosingDay, a.GoalAmount = day, goal
	}
	return a, nil
}
