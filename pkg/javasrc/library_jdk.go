package javasrc

import (
	"fmt"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// addJDK declares the members of java.lang, java.util, java.util.function
// and java.util.stream that rules and their fixtures touch.
func (lib *library) addJDK() {
	lib.addJavaLang()
	lib.addBoxes()
	lib.addMath()
	lib.addCollections()
	lib.addMaps()
	lib.addFunctions()
	lib.addStreams()
}

func (lib *library) addJavaLang() {
	lib.concrete("java.lang.Object", nil,
		"<init>()",
		"boolean equals(java.lang.Object)",
		"int hashCode()",
		"java.lang.String toString()",
		"java.lang.Class<?> getClass()",
	)
	lib.iface("java.lang.Comparable<T>", nil, "int compareTo(T)")

	for _, annotation := range []string{"Deprecated", "Override", "SuppressWarnings", "FunctionalInterface", "SafeVarargs"} {
		lib.declare(node.Annotation, javaLang+annotation, []string{"java.lang.annotation.Annotation"})
	}

	lib.iface("java.lang.annotation.Annotation", nil)
	lib.iface("java.lang.CharSequence", nil, "int length()", "char charAt(int)")
	lib.concrete("java.lang.String", []string{"java.lang.CharSequence", "java.lang.Comparable<java.lang.String>"},
		"<init>()",
		"<init>(java.lang.String)",
		"<init>(char[])",
		"int length()",
		"boolean isEmpty()",
		"boolean isBlank()",
		"char charAt(int)",
		"boolean equals(java.lang.Object)",
		"boolean equalsIgnoreCase(java.lang.String)",
		"int compareTo(java.lang.String)",
		"boolean contains(java.lang.CharSequence)",
		"boolean startsWith(java.lang.String)",
		"boolean endsWith(java.lang.String)",
		"int indexOf(java.lang.String)",
		"int indexOf(int)",
		"java.lang.String substring(int)",
		"java.lang.String substring(int, int)",
		"java.lang.String trim()",
		"java.lang.String strip()",
		"java.lang.String toLowerCase()",
		"java.lang.String toUpperCase()",
		"java.lang.String replace(java.lang.CharSequence, java.lang.CharSequence)",
		"java.lang.String replace(char, char)",
		"java.lang.String[] split(java.lang.String)",
		"char[] toCharArray()",
		"java.lang.String repeat(int)",
		"static java.lang.String valueOf(java.lang.Object)",
		"static java.lang.String valueOf(int)",
		"static java.lang.String valueOf(long)",
		"static java.lang.String valueOf(char)",
		"static java.lang.String valueOf(boolean)",
		"static java.lang.String valueOf(double)",
		"static java.lang.String format(java.lang.String, java.lang.Object...)",
		"static java.lang.String join(java.lang.CharSequence, java.lang.CharSequence...)",
	)
	lib.concrete("java.lang.StringBuilder", []string{"java.lang.CharSequence"},
		"<init>()",
		"<init>(int)",
		"<init>(java.lang.String)",
		"java.lang.StringBuilder append(java.lang.Object)",
		"java.lang.StringBuilder append(java.lang.String)",
		"java.lang.StringBuilder append(char)",
		"java.lang.StringBuilder append(int)",
		"java.lang.StringBuilder append(long)",
		"java.lang.StringBuilder append(boolean)",
		"java.lang.StringBuilder append(double)",
		"int length()",
		"java.lang.String toString()",
	)
	lib.concrete("java.lang.Number", nil,
		"int intValue()", "long longValue()", "float floatValue()", "double doubleValue()",
		"short shortValue()", "byte byteValue()",
	)
	lib.concrete("java.lang.Enum<E>", []string{"java.lang.Comparable<E>"},
		"java.lang.String name()",
		"int ordinal()",
		"int compareTo(E)",
		"java.lang.String toString()",
	)
	lib.concrete("java.lang.Class<T>", nil,
		"java.lang.String getName()",
		"java.lang.String getSimpleName()",
		"boolean isInstance(java.lang.Object)",
		"T cast(java.lang.Object)",
	)
	lib.functional("java.lang.Runnable", nil, "void run()")
	lib.iface("java.lang.AutoCloseable", nil, "void close()")
	lib.iface("java.lang.Iterable<T>", nil,
		"java.util.Iterator<T> iterator()",
		"void forEach(java.util.function.Consumer<? super T>)",
	)
	lib.concrete("java.lang.Throwable", nil,
		"<init>()", "<init>(java.lang.String)", "<init>(java.lang.String, java.lang.Throwable)",
		"java.lang.String getMessage()", "void printStackTrace()",
	)
	lib.concrete("java.lang.Exception", []string{"java.lang.Throwable"},
		"<init>()", "<init>(java.lang.String)", "<init>(java.lang.String, java.lang.Throwable)")
	lib.concrete("java.lang.RuntimeException", []string{"java.lang.Exception"},
		"<init>()", "<init>(java.lang.String)", "<init>(java.lang.String, java.lang.Throwable)")
	lib.concrete("java.lang.IllegalArgumentException", []string{"java.lang.RuntimeException"},
		"<init>()", "<init>(java.lang.String)")
	lib.concrete("java.lang.IllegalStateException", []string{"java.lang.RuntimeException"},
		"<init>()", "<init>(java.lang.String)")
	lib.concrete("java.lang.UnsupportedOperationException", []string{"java.lang.RuntimeException"},
		"<init>()", "<init>(java.lang.String)")
	lib.concrete("java.lang.System", nil,
		"static final java.io.PrintStream out",
		"static final java.io.PrintStream err",
		"static long currentTimeMillis()",
		"static long nanoTime()",
		"static java.lang.String getProperty(java.lang.String)",
		"static java.lang.String getenv(java.lang.String)",
		"static void arraycopy(java.lang.Object, int, java.lang.Object, int, int)",
	)

	printMembers := []string{"void println()", "void printf(java.lang.String, java.lang.Object...)"}
	for _, param := range []string{"java.lang.String", "java.lang.Object", "int", "long", "char", "boolean", "double", "float"} {
		printMembers = append(printMembers, "void println("+param+")", "void print("+param+")")
	}

	lib.concrete("java.io.PrintStream", nil, printMembers...)
}

type boxSpec struct {
	prim  jtype.Kind
	parse string
}

var boxSpecs = []boxSpec{
	{jtype.Boolean, "parseBoolean"},
	{jtype.Byte, "parseByte"},
	{jtype.Char, ""},
	{jtype.Short, "parseShort"},
	{jtype.Int, "parseInt"},
	{jtype.Long, "parseLong"},
	{jtype.Float, "parseFloat"},
	{jtype.Double, "parseDouble"},
}

// addBoxes declares the eight wrapper classes with their valueOf factories,
// parse methods and xxxValue accessors.
func (lib *library) addBoxes() {
	for _, spec := range boxSpecs {
		prim := spec.prim.String()
		box := jtype.BoxName(spec.prim)

		supers := []string{fmt.Sprintf("java.lang.Comparable<%s>", box)}
		if spec.prim.IsNumeric() && spec.prim != jtype.Char {
			supers = append(supers, "java.lang.Number")
		}

		members := []string{
			fmt.Sprintf("static %s valueOf(%s)", box, prim),
			fmt.Sprintf("%s %sValue()", prim, prim),
			fmt.Sprintf("static java.lang.String toString(%s)", prim),
			fmt.Sprintf("static int hashCode(%s)", prim),
			fmt.Sprintf("int compareTo(%s)", box),
			fmt.Sprintf("static int compare(%s, %s)", prim, prim),
		}

		if spec.parse != "" {
			members = append(members,
				fmt.Sprintf("static %s valueOf(java.lang.String)", box),
				fmt.Sprintf("static %s %s(java.lang.String)", prim, spec.parse),
			)
		}

		if spec.prim != jtype.Boolean {
			members = append(members,
				fmt.Sprintf("static final %s MIN_VALUE", prim),
				fmt.Sprintf("static final %s MAX_VALUE", prim),
			)
		} else {
			members = append(members, "static final java.lang.Boolean TRUE", "static final java.lang.Boolean FALSE")
		}

		if spec.prim == jtype.Int || spec.prim == jtype.Long {
			members = append(members,
				fmt.Sprintf("static %s sum(%s, %s)", prim, prim, prim),
				fmt.Sprintf("static %s max(%s, %s)", prim, prim, prim),
				fmt.Sprintf("static %s min(%s, %s)", prim, prim, prim),
			)
		}

		if spec.prim == jtype.Char {
			members = append(members,
				"static boolean isDigit(char)", "static boolean isLetter(char)",
				"static boolean isUpperCase(char)", "static char toUpperCase(char)",
				"static char toLowerCase(char)",
			)
		}

		lib.concrete(box, supers, members...)
	}
}

// addMath declares java.lang.Math. Overloads per numeric kind are declared
// separately so that overload resolution performs binary numeric promotion.
func (lib *library) addMath() {
	members := []string{
		"static final double PI",
		"static final double E",
		"static double pow(double, double)",
		"static double sqrt(double)",
		"static double cbrt(double)",
		"static double log(double)",
		"static double log10(double)",
		"static double exp(double)",
		"static double ceil(double)",
		"static double floor(double)",
		"static double random()",
		"static long round(double)",
		"static int round(float)",
		"static int toIntExact(long)",
		"static long multiplyExact(long, int)",
		"static long multiplyFull(int, int)",
		"static int floorDiv(int, int)",
		"static long floorDiv(long, int)",
		"static long floorDiv(long, long)",
		"static int floorMod(int, int)",
		"static int floorMod(long, int)",
		"static long floorMod(long, long)",
	}

	for _, prim := range []string{"int", "long", "float", "double"} {
		members = append(members,
			fmt.Sprintf("static %[1]s min(%[1]s, %[1]s)", prim),
			fmt.Sprintf("static %[1]s max(%[1]s, %[1]s)", prim),
			fmt.Sprintf("static %[1]s abs(%[1]s)", prim),
		)
	}

	for _, prim := range []string{"int", "long"} {
		members = append(members,
			fmt.Sprintf("static %[1]s addExact(%[1]s, %[1]s)", prim),
			fmt.Sprintf("static %[1]s subtractExact(%[1]s, %[1]s)", prim),
			fmt.Sprintf("static %[1]s multiplyExact(%[1]s, %[1]s)", prim),
			fmt.Sprintf("static %[1]s negateExact(%[1]s)", prim),
			fmt.Sprintf("static %[1]s incrementExact(%[1]s)", prim),
			fmt.Sprintf("static %[1]s decrementExact(%[1]s)", prim),
		)
	}

	lib.concrete("java.lang.Math", nil, members...)
}

func (lib *library) addCollections() {
	lib.iface("java.util.Iterator<E>", nil, "boolean hasNext()", "E next()", "void remove()")
	lib.iface("java.util.Collection<E>", []string{"java.lang.Iterable<E>"},
		"int size()",
		"boolean isEmpty()",
		"boolean contains(java.lang.Object)",
		"boolean add(E)",
		"boolean remove(java.lang.Object)",
		"boolean addAll(java.util.Collection<? extends E>)",
		"boolean removeAll(java.util.Collection<?>)",
		"boolean containsAll(java.util.Collection<?>)",
		"boolean removeIf(java.util.function.Predicate<? super E>)",
		"void clear()",
		"java.lang.Object[] toArray()",
		"java.util.stream.Stream<E> stream()",
		"java.util.stream.Stream<E> parallelStream()",
	)
	lib.iface("java.util.List<E>", []string{"java.util.Collection<E>"},
		"E get(int)",
		"E set(int, E)",
		"void add(int, E)",
		"E remove(int)",
		"int indexOf(java.lang.Object)",
		"int lastIndexOf(java.lang.Object)",
		"java.util.List<E> subList(int, int)",
		"void sort(java.util.Comparator<? super E>)",
		"void replaceAll(java.util.function.UnaryOperator<E>)",
		"static <E> java.util.List<E> of(E...)",
		"static <E> java.util.List<E> copyOf(java.util.Collection<? extends E>)",
	)
	lib.iface("java.util.Set<E>", []string{"java.util.Collection<E>"},
		"static <E> java.util.Set<E> of(E...)",
		"static <E> java.util.Set<E> copyOf(java.util.Collection<? extends E>)",
	)
	lib.iface("java.util.SortedSet<E>", []string{"java.util.Set<E>"}, "E first()", "E last()")
	lib.iface("java.util.NavigableSet<E>", []string{"java.util.SortedSet<E>"}, "E floor(E)", "E ceiling(E)")
	lib.iface("java.util.Queue<E>", []string{"java.util.Collection<E>"}, "boolean offer(E)", "E poll()", "E peek()")
	lib.iface("java.util.Deque<E>", []string{"java.util.Queue<E>"},
		"void push(E)", "E pop()", "void addFirst(E)", "void addLast(E)")

	ctors := []string{"<init>()", "<init>(int)", "<init>(java.util.Collection<? extends E>)"}
	lib.concrete("java.util.AbstractCollection<E>", []string{"java.util.Collection<E>"})
	lib.concrete("java.util.AbstractList<E>", []string{"java.util.AbstractCollection<E>", "java.util.List<E>"})
	lib.concrete("java.util.ArrayList<E>", []string{"java.util.AbstractList<E>"},
		append(ctors, "void ensureCapacity(int)", "void trimToSize()")...)
	lib.concrete("java.util.LinkedList<E>", []string{"java.util.AbstractList<E>", "java.util.Deque<E>"},
		"<init>()", "<init>(java.util.Collection<? extends E>)")
	lib.concrete("java.util.Vector<E>", []string{"java.util.AbstractList<E>"}, ctors...)
	lib.concrete("java.util.Stack<E>", []string{"java.util.Vector<E>"},
		"<init>()", "E push(E)", "E pop()", "E peek()", "boolean empty()")
	lib.concrete("java.util.ArrayDeque<E>", []string{"java.util.AbstractCollection<E>", "java.util.Deque<E>"}, ctors...)
	lib.concrete("java.util.AbstractSet<E>", []string{"java.util.AbstractCollection<E>", "java.util.Set<E>"})
	lib.concrete("java.util.HashSet<E>", []string{"java.util.AbstractSet<E>"}, ctors...)
	lib.concrete("java.util.LinkedHashSet<E>", []string{"java.util.HashSet<E>"}, ctors...)
	lib.concrete("java.util.TreeSet<E>", []string{"java.util.AbstractSet<E>", "java.util.NavigableSet<E>"},
		"<init>()", "<init>(java.util.Comparator<? super E>)", "<init>(java.util.Collection<? extends E>)")
	lib.concrete("java.util.EnumSet<E>", []string{"java.util.AbstractSet<E>"},
		"static <E> java.util.EnumSet<E> noneOf(java.lang.Class<E>)",
		"static <E> java.util.EnumSet<E> allOf(java.lang.Class<E>)",
		"static <E> java.util.EnumSet<E> of(E, E...)",
	)
	lib.concrete("java.util.BitSet", nil, "<init>()", "<init>(int)", "void set(int)", "boolean get(int)")
	lib.concrete("java.util.Random", nil, "<init>()", "<init>(long)", "int nextInt()", "int nextInt(int)", "long nextLong()")

	lib.concrete("java.util.Optional<T>", nil,
		"static <T> java.util.Optional<T> of(T)",
		"static <T> java.util.Optional<T> ofNullable(T)",
		"static <T> java.util.Optional<T> empty()",
		"T get()",
		"T orElseThrow()",
		"boolean isPresent()",
		"boolean isEmpty()",
		"T orElse(T)",
		"T orElseGet(java.util.function.Supplier<? extends T>)",
		"<U> java.util.Optional<U> map(java.util.function.Function<? super T, ? extends U>)",
		"<U> java.util.Optional<U> flatMap(java.util.function.Function<? super T, ? extends java.util.Optional<? extends U>>)",
		"java.util.Optional<T> filter(java.util.function.Predicate<? super T>)",
		"void ifPresent(java.util.function.Consumer<? super T>)",
	)
	lib.concrete("java.util.Objects", nil,
		"static boolean equals(java.lang.Object, java.lang.Object)",
		"static int hash(java.lang.Object...)",
		"static int hashCode(java.lang.Object)",
		"static <T> T requireNonNull(T)",
		"static <T> T requireNonNull(T, java.lang.String)",
		"static boolean isNull(java.lang.Object)",
		"static boolean nonNull(java.lang.Object)",
		"static java.lang.String toString(java.lang.Object)",
	)
	lib.concrete("java.util.Arrays", nil,
		"static <T> java.util.List<T> asList(T...)",
		"static java.lang.String toString(java.lang.Object[])",
		"static java.lang.String toString(int[])",
		"static void sort(int[])",
		"static void fill(int[], int)",
		"static <T> java.util.stream.Stream<T> stream(T[])",
	)
	lib.concrete("java.util.Collections", nil,
		"static <T> java.util.List<T> emptyList()",
		"static <T> java.util.Set<T> emptySet()",
		"static <K, V> java.util.Map<K, V> emptyMap()",
		"static <T> java.util.List<T> singletonList(T)",
		"static <T> java.util.Set<T> singleton(T)",
		"static <T> java.util.List<T> unmodifiableList(java.util.List<? extends T>)",
		"static <T> java.util.Set<T> unmodifiableSet(java.util.Set<? extends T>)",
		"static <K, V> java.util.Map<K, V> unmodifiableMap(java.util.Map<? extends K, ? extends V>)",
		"static <T> void sort(java.util.List<T>)",
	)
	lib.functional("java.util.Comparator<T>", nil, "int compare(T, T)",
		"static <T> java.util.Comparator<T> reverseOrder()",
		"static <T> java.util.Comparator<T> naturalOrder()",
		"static <T, U> java.util.Comparator<T> comparing(java.util.function.Function<? super T, ? extends U>)",
		"static <T> java.util.Comparator<T> comparingInt(java.util.function.ToIntFunction<? super T>)",
		"java.util.Comparator<T> reversed()",
		"java.util.Comparator<T> thenComparing(java.util.Comparator<? super T>)",
	)
}

// addMaps declares java.util.Map and its implementations. Map.of is declared
// for up to ten key-value pairs.
func (lib *library) addMaps() {
	members := []string{
		"int size()",
		"boolean isEmpty()",
		"V get(java.lang.Object)",
		"V getOrDefault(java.lang.Object, V)",
		"V put(K, V)",
		"V putIfAbsent(K, V)",
		"void putAll(java.util.Map<? extends K, ? extends V>)",
		"V remove(java.lang.Object)",
		"boolean containsKey(java.lang.Object)",
		"boolean containsValue(java.lang.Object)",
		"void clear()",
		"java.util.Set<K> keySet()",
		"java.util.Collection<V> values()",
		"java.util.Set<java.util.Map.Entry<K, V>> entrySet()",
		"void forEach(java.util.function.BiConsumer<? super K, ? super V>)",
		"V computeIfAbsent(K, java.util.function.Function<? super K, ? extends V>)",
		"V merge(K, V, java.util.function.BiFunction<? super V, ? super V, ? extends V>)",
		"static <K, V> java.util.Map<K, V> ofEntries(java.util.Map.Entry<? extends K, ? extends V>...)",
		"static <K, V> java.util.Map.Entry<K, V> entry(K, V)",
		"static <K, V> java.util.Map<K, V> copyOf(java.util.Map<? extends K, ? extends V>)",
	}

	for pairs := range 11 {
		params := strings.TrimSuffix(strings.Repeat("K, V, ", pairs), ", ")
		members = append(members, fmt.Sprintf("static <K, V> java.util.Map<K, V> of(%s)", params))
	}

	lib.iface("java.util.Map<K, V>", nil, members...)
	lib.iface("java.util.Map.Entry<K, V>", nil, "K getKey()", "V getValue()", "V setValue(V)")
	lib.iface("java.util.SortedMap<K, V>", []string{"java.util.Map<K, V>"}, "K firstKey()", "K lastKey()")
	lib.iface("java.util.NavigableMap<K, V>", []string{"java.util.SortedMap<K, V>"},
		"java.util.Map.Entry<K, V> firstEntry()", "K floorKey(K)", "K ceilingKey(K)")

	ctors := []string{"<init>()", "<init>(int)", "<init>(java.util.Map<? extends K, ? extends V>)"}
	lib.concrete("java.util.AbstractMap<K, V>", []string{"java.util.Map<K, V>"})
	lib.concrete("java.util.HashMap<K, V>", []string{"java.util.AbstractMap<K, V>"},
		append(ctors, "<init>(int, float)")...)
	lib.concrete("java.util.LinkedHashMap<K, V>", []string{"java.util.HashMap<K, V>"},
		append(ctors, "<init>(int, float)", "<init>(int, float, boolean)",
			"boolean removeEldestEntry(java.util.Map.Entry<K, V>)")...)
	lib.concrete("java.util.TreeMap<K, V>", []string{"java.util.AbstractMap<K, V>", "java.util.NavigableMap<K, V>"},
		"<init>()", "<init>(java.util.Comparator<? super K>)", "<init>(java.util.Map<? extends K, ? extends V>)")
	lib.concrete("java.util.IdentityHashMap<K, V>", []string{"java.util.AbstractMap<K, V>"}, ctors...)
	lib.concrete("java.util.WeakHashMap<K, V>", []string{"java.util.AbstractMap<K, V>"}, ctors...)
	lib.concrete("java.util.EnumMap<K, V>", []string{"java.util.AbstractMap<K, V>"},
		"<init>(java.lang.Class<K>)", "<init>(java.util.Map<K, ? extends V>)")
	lib.concrete("java.util.concurrent.ConcurrentHashMap<K, V>", []string{"java.util.AbstractMap<K, V>"}, ctors...)
}

func (lib *library) addFunctions() {
	const pkg = "java.util.function."

	lib.functional(pkg+"Function<T, R>", nil, "R apply(T)",
		"static <T> java.util.function.Function<T, T> identity()")
	lib.functional(pkg+"BiFunction<T, U, R>", nil, "R apply(T, U)")
	lib.functional(pkg+"Consumer<T>", nil, "void accept(T)")
	lib.functional(pkg+"BiConsumer<T, U>", nil, "void accept(T, U)")
	lib.functional(pkg+"Predicate<T>", nil, "boolean test(T)",
		"java.util.function.Predicate<T> negate()")
	lib.functional(pkg+"BiPredicate<T, U>", nil, "boolean test(T, U)")
	lib.functional(pkg+"Supplier<T>", nil, "T get()")
	lib.iface(pkg+"UnaryOperator<T>", []string{pkg + "Function<T, T>"},
		"static <T> java.util.function.UnaryOperator<T> identity()")
	lib.iface(pkg+"BinaryOperator<T>", []string{pkg + "BiFunction<T, T, T>"})
	lib.functional(pkg+"ToIntFunction<T>", nil, "int applyAsInt(T)")
	lib.functional(pkg+"ToLongFunction<T>", nil, "long applyAsLong(T)")
	lib.functional(pkg+"ToDoubleFunction<T>", nil, "double applyAsDouble(T)")

	for _, prim := range []string{"Int", "Long", "Double"} {
		lower := strings.ToLower(prim)
		lib.functional(pkg+prim+"Function<R>", nil, fmt.Sprintf("R apply(%s)", lower))
		lib.functional(pkg+prim+"Consumer", nil, fmt.Sprintf("void accept(%s)", lower))
		lib.functional(pkg+prim+"Predicate", nil, fmt.Sprintf("boolean test(%s)", lower))
		lib.functional(pkg+prim+"Supplier", nil, fmt.Sprintf("%s getAs%s()", lower, prim))
		lib.functional(pkg+prim+"UnaryOperator", nil, fmt.Sprintf("%[1]s applyAs%[2]s(%[1]s)", lower, prim))
		lib.functional(pkg+prim+"BinaryOperator", nil, fmt.Sprintf("%[1]s applyAs%[2]s(%[1]s, %[1]s)", lower, prim))
	}
}

func (lib *library) addStreams() {
	const pkg = "java.util.stream."

	lib.iface(pkg+"BaseStream<T, S>", []string{"java.lang.AutoCloseable"}, "java.util.Iterator<T> iterator()")
	lib.iface(pkg+"Stream<T>", []string{pkg + "BaseStream<T, java.util.stream.Stream<T>>"},
		"<R> java.util.stream.Stream<R> map(java.util.function.Function<? super T, ? extends R>)",
		"java.util.stream.Stream<T> filter(java.util.function.Predicate<? super T>)",
		"java.util.stream.IntStream mapToInt(java.util.function.ToIntFunction<? super T>)",
		"java.util.stream.Stream<T> sorted()",
		"java.util.stream.Stream<T> distinct()",
		"java.util.stream.Stream<T> limit(long)",
		"void forEach(java.util.function.Consumer<? super T>)",
		"<R, A> R collect(java.util.stream.Collector<? super T, A, R>)",
		"java.util.List<T> toList()",
		"java.util.Optional<T> findFirst()",
		"java.util.Optional<T> findAny()",
		"boolean anyMatch(java.util.function.Predicate<? super T>)",
		"boolean allMatch(java.util.function.Predicate<? super T>)",
		"long count()",
		"static <T> java.util.stream.Stream<T> of(T...)",
		"static <T> java.util.stream.Stream<T> empty()",
	)
	lib.iface(pkg+"IntStream", nil,
		"int sum()",
		"java.util.stream.Stream<java.lang.Integer> boxed()",
		"int[] toArray()",
		"java.util.stream.IntStream filter(java.util.function.IntPredicate)",
		"java.util.stream.IntStream map(java.util.function.IntUnaryOperator)",
		"static java.util.stream.IntStream range(int, int)",
		"static java.util.stream.IntStream of(int...)",
	)
	lib.iface(pkg+"Collector<T, A, R>", nil)
	lib.concrete(pkg+"Collectors", nil,
		"static <T> java.util.stream.Collector<T, ?, java.util.List<T>> toList()",
		"static <T> java.util.stream.Collector<T, ?, java.util.Set<T>> toSet()",
		"static java.util.stream.Collector<java.lang.CharSequence, ?, java.lang.String> joining(java.lang.CharSequence)",
		"static <T, K, U> java.util.stream.Collector<T, ?, java.util.Map<K, U>> "+
			"toMap(java.util.function.Function<? super T, ? extends K>, java.util.function.Function<? super T, ? extends U>)",
	)
}
